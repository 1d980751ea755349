package dedup

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// LSHIndex buckets signatures by band so that records with high Jaccard
// similarity land in a shared bucket with high probability. A signature
// split into b bands of r rows is found as a candidate of a true-similarity
// s record with probability 1-(1-s^r)^b.
//
// Bucket membership is kept in roaring bitmaps keyed by band hash. The
// index is mutated only by the pipeline's sequential dedup fold and is not
// safe for concurrent writes.
type LSHIndex struct {
	bands   int
	rows    int
	buckets []map[uint64]*roaring.Bitmap
}

// NewLSHIndex creates an index with the given band/row split. The split is
// validated by config before the index is built.
func NewLSHIndex(bands, rows int) *LSHIndex {
	buckets := make([]map[uint64]*roaring.Bitmap, bands)
	for i := range buckets {
		buckets[i] = make(map[uint64]*roaring.Bitmap)
	}
	return &LSHIndex{bands: bands, rows: rows, buckets: buckets}
}

// Bands returns the number of bands.
func (ix *LSHIndex) Bands() int { return ix.bands }

// Rows returns the rows per band.
func (ix *LSHIndex) Rows() int { return ix.rows }

// Add inserts a record's signature into every band bucket it hashes to.
func (ix *LSHIndex) Add(id uint32, sig *Signature) {
	for band := 0; band < ix.bands; band++ {
		key, ok := ix.bandKey(sig, band)
		if !ok {
			continue
		}
		bm := ix.buckets[band][key]
		if bm == nil {
			bm = roaring.New()
			ix.buckets[band][key] = bm
		}
		bm.Add(id)
	}
}

// Query returns the ids of previously added records that share at least one
// band bucket with sig, in ascending id order. The id passed is excluded so
// a record never matches itself.
func (ix *LSHIndex) Query(id uint32, sig *Signature) []uint32 {
	result := roaring.New()
	for band := 0; band < ix.bands; band++ {
		key, ok := ix.bandKey(sig, band)
		if !ok {
			continue
		}
		if bm := ix.buckets[band][key]; bm != nil {
			result.Or(bm)
		}
	}
	result.Remove(id)
	return result.ToArray()
}

// bandKey hashes the band's slice of the signature. Bands that fall outside
// the signature (b*r > len) are skipped.
func (ix *LSHIndex) bandKey(sig *Signature, band int) (uint64, bool) {
	start := band * ix.rows
	end := start + ix.rows
	if end > len(sig.Values) {
		end = len(sig.Values)
	}
	if start >= end {
		return 0, false
	}
	return hashBand(sig.Values[start:end], uint64(band)), true
}

// hashBand computes an FNV-1a style hash of a signature slice, seeded by the
// band index so identical slices in different bands occupy distinct keys.
func hashBand(values []uint64, seed uint64) uint64 {
	const fnvPrime = 0x00000100000001B3
	h := seed ^ 0xcbf29ce484222325
	for _, v := range values {
		h ^= v
		h *= fnvPrime
	}
	return h
}

// BandsForThreshold picks a band/row split for a signature of numPerm values
// targeting the given similarity threshold. Among splits with r*b <= numPerm
// it minimizes the distance between the curve's approximate inflection point
// (1/b)^(1/r) and the threshold.
func BandsForThreshold(numPerm int, threshold float64) (bands, rows int) {
	bands, rows = numPerm, 1
	best := math.Inf(1)
	for r := 1; r <= numPerm; r++ {
		b := numPerm / r
		if b < 1 {
			break
		}
		t := math.Pow(1.0/float64(b), 1.0/float64(r))
		if d := math.Abs(t - threshold); d < best {
			best = d
			bands, rows = b, r
		}
	}
	return bands, rows
}
