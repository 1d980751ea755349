// Package dedup implements exact and near-duplicate detection for code
// records using content hashing, MinHash signatures, and LSH banding.
package dedup

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// HashText returns the blake3 hex digest of text. Identical text yields an
// identical digest; distinct text collides with cryptographically negligible
// probability.
func HashText(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

type exactEntry struct {
	canonicalID string
	checksum    uint64
}

// ExactIndex detects byte-identical normalized text by content hash.
// The first record inserted under a digest becomes the canonical member;
// later arrivals are duplicates. Not safe for concurrent use; the pipeline
// serializes all mutations.
type ExactIndex struct {
	entries    map[string]exactEntry
	collisions int
}

// NewExactIndex creates an empty exact-duplicate index.
func NewExactIndex() *ExactIndex {
	return &ExactIndex{entries: make(map[string]exactEntry)}
}

// Insert records the normalized text for id and reports whether an earlier
// record already claimed the same digest. On a duplicate, the canonical
// record's id is returned for traceability.
//
// A digest collision between materially different texts (blake3 digests
// equal, independent xxhash checksums differ) is resolved conservatively:
// the new record is treated as distinct rather than merged, and the
// anomaly is counted.
func (ix *ExactIndex) Insert(id, normalized string) (isDuplicate bool, canonicalID string) {
	digest := HashText(normalized)
	checksum := xxhash.Sum64String(normalized)

	entry, ok := ix.entries[digest]
	if !ok {
		ix.entries[digest] = exactEntry{canonicalID: id, checksum: checksum}
		return false, id
	}
	if entry.checksum != checksum {
		ix.collisions++
		return false, id
	}
	return true, entry.canonicalID
}

// Len returns the number of distinct digests seen.
func (ix *ExactIndex) Len() int {
	return len(ix.entries)
}

// Collisions returns the number of digest collision anomalies observed.
func (ix *ExactIndex) Collisions() int {
	return ix.collisions
}
