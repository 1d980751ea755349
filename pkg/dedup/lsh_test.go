package dedup

import (
	"math/rand"
	"testing"
)

func TestLSHIndex_AddAndQuery(t *testing.T) {
	hasher := NewMinHasher(128, 1)
	ix := NewLSHIndex(16, 8)

	shingles := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	sig := hasher.Sign(shingles)

	ix.Add(0, sig)

	// An identical signature must be found.
	got := ix.Query(1, sig)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Query = %v, want [0]", got)
	}

	// A record never matches itself.
	if got := ix.Query(0, sig); len(got) != 0 {
		t.Errorf("self-query = %v, want empty", got)
	}
}

func TestLSHIndex_DisjointSetsNotCandidates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hasher := NewMinHasher(128, 1)
	ix := NewLSHIndex(16, 8)

	a := make([]uint64, 200)
	b := make([]uint64, 200)
	for i := range a {
		a[i] = rng.Uint64()
		b[i] = rng.Uint64()
	}

	ix.Add(0, hasher.Sign(a))
	if got := ix.Query(1, hasher.Sign(b)); len(got) != 0 {
		t.Errorf("disjoint sets surfaced as candidates: %v", got)
	}
}

func TestBandsForThreshold(t *testing.T) {
	tests := []struct {
		numPerm   int
		threshold float64
	}{
		{128, 0.8},
		{128, 0.5},
		{96, 0.85},
		{64, 0.7},
	}

	for _, tt := range tests {
		bands, rows := BandsForThreshold(tt.numPerm, tt.threshold)
		if bands < 1 || rows < 1 {
			t.Fatalf("BandsForThreshold(%d, %f) = (%d, %d): invalid split", tt.numPerm, tt.threshold, bands, rows)
		}
		if bands*rows > tt.numPerm {
			t.Errorf("bands*rows = %d exceeds numPerm %d", bands*rows, tt.numPerm)
		}
	}
}

// TestLSHIndex_RecallAboveThreshold verifies the banding guarantee: pairs
// well above the target threshold surface as candidates with probability
// at least 0.95 at the default split.
func TestLSHIndex_RecallAboveThreshold(t *testing.T) {
	const (
		numPerm   = 128
		threshold = 0.8
		pairs     = 300
		setSize   = 400
	)
	rng := rand.New(rand.NewSource(99))
	hasher := NewMinHasher(numPerm, 1)
	bands, rows := BandsForThreshold(numPerm, threshold)

	found := 0
	for i := 0; i < pairs; i++ {
		ix := NewLSHIndex(bands, rows)

		// Build a pair with true Jaccard ~0.92 (threshold + margin).
		sz := float64(setSize)
		shared := int(2 * sz * 0.92 / 1.92)
		a := make([]uint64, 0, setSize)
		b := make([]uint64, 0, setSize)
		for j := 0; j < shared; j++ {
			v := rng.Uint64()
			a = append(a, v)
			b = append(b, v)
		}
		for len(a) < setSize {
			a = append(a, rng.Uint64())
		}
		for len(b) < setSize {
			b = append(b, rng.Uint64())
		}

		ix.Add(0, hasher.Sign(a))
		if got := ix.Query(1, hasher.Sign(b)); len(got) == 1 && got[0] == 0 {
			found++
		}
	}

	recall := float64(found) / float64(pairs)
	if recall < 0.95 {
		t.Errorf("recall = %.3f over %d pairs, want >= 0.95", recall, pairs)
	}
}
