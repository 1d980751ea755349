package dedup

// Signature is a fixed-length MinHash fingerprint of a shingle set. The
// fraction of matching positions between two signatures estimates the
// Jaccard similarity of the underlying sets.
type Signature struct {
	Values []uint64 `json:"values"`
}

// MinHasher builds signatures of a fixed permutation count. Signatures are
// deterministic for a given (shingle set, seed, permutation count), across
// runs and machines.
type MinHasher struct {
	numPerm int
	seed    uint64
}

// NewMinHasher creates a builder with numPerm permutations and the given seed.
func NewMinHasher(numPerm int, seed uint64) *MinHasher {
	return &MinHasher{numPerm: numPerm, seed: seed}
}

// NumPerm returns the permutation count; every signature from this builder
// has exactly this length.
func (m *MinHasher) NumPerm() int {
	return m.numPerm
}

// Sign computes the MinHash signature of a shingle set: for each permutation
// p, the minimum of a seeded 64-bit mix over all shingles. An empty set
// yields an all-max signature.
func (m *MinHasher) Sign(shingles []uint64) *Signature {
	sig := &Signature{Values: make([]uint64, m.numPerm)}
	for i := range sig.Values {
		sig.Values[i] = ^uint64(0)
	}

	for _, s := range shingles {
		for p := 0; p < m.numPerm; p++ {
			h := mix64(s, m.seed+uint64(p))
			if h < sig.Values[p] {
				sig.Values[p] = h
			}
		}
	}

	return sig
}

// Similarity estimates Jaccard similarity as the fraction of matching
// signature positions. Signatures of different lengths compare as 0.
func (s *Signature) Similarity(other *Signature) float64 {
	if other == nil || len(s.Values) != len(other.Values) || len(s.Values) == 0 {
		return 0
	}

	matches := 0
	for i := range s.Values {
		if s.Values[i] == other.Values[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(s.Values))
}

// mix64 combines a value and seed with murmur-style finalizer mixing.
// Allocation-free, used in the MinHash inner loop.
func mix64(value, seed uint64) uint64 {
	h := value ^ seed
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
