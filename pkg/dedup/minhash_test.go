package dedup

import (
	"math/rand"
	"testing"
)

func TestMinHasher_Deterministic(t *testing.T) {
	shingles := []uint64{17, 42, 99, 1234567, 88}

	a := NewMinHasher(64, 7).Sign(shingles)
	b := NewMinHasher(64, 7).Sign(shingles)

	if len(a.Values) != 64 {
		t.Fatalf("signature length = %d, want 64", len(a.Values))
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("signatures differ at position %d", i)
		}
	}
}

func TestMinHasher_SeedChangesSignature(t *testing.T) {
	shingles := []uint64{17, 42, 99}

	a := NewMinHasher(64, 1).Sign(shingles)
	b := NewMinHasher(64, 1000).Sign(shingles)

	same := 0
	for i := range a.Values {
		if a.Values[i] == b.Values[i] {
			same++
		}
	}
	if same == len(a.Values) {
		t.Error("different seeds should produce different signatures")
	}
}

func TestSignature_Similarity(t *testing.T) {
	a := &Signature{Values: []uint64{1, 2, 3, 4}}
	b := &Signature{Values: []uint64{1, 2, 3, 4}}
	if sim := a.Similarity(b); sim != 1.0 {
		t.Errorf("identical signatures: similarity = %f, want 1.0", sim)
	}

	c := &Signature{Values: []uint64{5, 6, 7, 8}}
	if sim := a.Similarity(c); sim != 0.0 {
		t.Errorf("disjoint signatures: similarity = %f, want 0.0", sim)
	}

	d := &Signature{Values: []uint64{1, 2}}
	if sim := a.Similarity(d); sim != 0.0 {
		t.Errorf("length mismatch: similarity = %f, want 0.0", sim)
	}
	if sim := a.Similarity(nil); sim != 0.0 {
		t.Errorf("nil signature: similarity = %f, want 0.0", sim)
	}
}

// TestMinHash_EstimatesJaccard checks that signature similarity tracks true
// Jaccard similarity within a loose statistical tolerance.
func TestMinHash_EstimatesJaccard(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hasher := NewMinHasher(256, 1)

	for _, overlap := range []float64{0.3, 0.5, 0.8, 0.9} {
		const n = 500
		shared := int(float64(n) * overlap / (2 - overlap)) // |A∩B| for target Jaccard

		a := make([]uint64, 0, n)
		b := make([]uint64, 0, n)
		for i := 0; i < shared; i++ {
			v := rng.Uint64()
			a = append(a, v)
			b = append(b, v)
		}
		for len(a) < n {
			a = append(a, rng.Uint64())
		}
		for len(b) < n {
			b = append(b, rng.Uint64())
		}

		trueJaccard := float64(shared) / float64(2*n-shared)
		est := hasher.Sign(a).Similarity(hasher.Sign(b))

		if est < trueJaccard-0.12 || est > trueJaccard+0.12 {
			t.Errorf("overlap %.1f: estimated %.3f, true %.3f (outside tolerance)", overlap, est, trueJaccard)
		}
	}
}
