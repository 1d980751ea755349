package dedup

// Match describes a confirmed near-duplicate hit.
type Match struct {
	CanonicalIdx uint32
	ClusterID    uint64
	Similarity   float64
}

// Resolver assigns records to near-duplicate clusters in a strictly
// sequential fold over the survivor stream. The first record of a cluster
// is canonical; later records at or above the threshold are folded into its
// cluster and never re-queried. Clusters are never re-merged once fixed,
// so earlier records win ties.
type Resolver struct {
	index     *LSHIndex
	threshold float64

	signatures []*Signature
	clusters   []uint64
	canonical  []bool
	nextID     uint64
}

// NewResolver creates a resolver over a fresh LSH index.
func NewResolver(index *LSHIndex, threshold float64) *Resolver {
	return &Resolver{index: index, threshold: threshold}
}

// Resolve processes the next surviving record. It returns a Match when the
// record is a confirmed near-duplicate of an earlier canonical record, or
// (nil, clusterID) when the record becomes canonical for a new cluster and
// joins the index. The caller must invoke Resolve in deterministic record
// order; the index assigned to each record is its arrival position.
func (r *Resolver) Resolve(sig *Signature) (match *Match, clusterID uint64) {
	idx := uint32(len(r.signatures))

	var best *Match
	for _, cand := range r.index.Query(idx, sig) {
		if !r.canonical[cand] {
			continue
		}
		sim := sig.Similarity(r.signatures[cand])
		if sim < r.threshold {
			continue
		}
		// Query returns ascending ids, so the earliest canonical at or
		// above threshold wins.
		best = &Match{CanonicalIdx: cand, ClusterID: r.clusters[cand], Similarity: sim}
		break
	}

	if best != nil {
		r.signatures = append(r.signatures, sig)
		r.clusters = append(r.clusters, best.ClusterID)
		r.canonical = append(r.canonical, false)
		return best, best.ClusterID
	}

	r.nextID++
	id := r.nextID
	r.signatures = append(r.signatures, sig)
	r.clusters = append(r.clusters, id)
	r.canonical = append(r.canonical, true)
	r.index.Add(idx, sig)
	return nil, id
}

// ClusterSizes returns the number of members per cluster id, canonical
// included.
func (r *Resolver) ClusterSizes() map[uint64]int {
	sizes := make(map[uint64]int, r.nextID)
	for _, c := range r.clusters {
		sizes[c]++
	}
	return sizes
}
