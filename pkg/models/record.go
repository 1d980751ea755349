// Package models defines the record types flowing through the curation pipeline.
package models

// FunctionRecord is a single extracted code unit with its provenance.
// Records arrive from upstream extraction and are never mutated; derived
// fields live on KeptRecord.
type FunctionRecord struct {
	Repo      string `json:"repo,omitempty"`
	Commit    string `json:"commit,omitempty"`
	FilePath  string `json:"file_path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Language  string `json:"language"`
	Name      string `json:"name,omitempty"`
	Code      string `json:"code"`
	Docstring string `json:"docstring,omitempty"`
}

// QualityMetrics holds the structural metrics computed per record.
type QualityMetrics struct {
	LOC          int  `json:"loc"`
	Cyclomatic   int  `json:"cyclomatic"`
	MaxNesting   int  `json:"max_nesting"`
	SyntheticDoc bool `json:"synthetic_doc"`
}

// DropReason explains why a record was excluded from the kept set.
type DropReason string

const (
	DropQuality  DropReason = "quality"
	DropExactDup DropReason = "exact_duplicate"
	DropNearDup  DropReason = "near_duplicate"
	DropParse    DropReason = "parse_failure"
)

// String returns the string representation.
func (r DropReason) String() string {
	return string(r)
}

// Decision is the terminal outcome for one record. Every record resolves
// to exactly one decision: kept, or dropped with a reason.
type Decision struct {
	Kept        bool       `json:"kept"`
	Reason      DropReason `json:"reason,omitempty"`
	Detail      string     `json:"detail,omitempty"`
	ClusterID   uint64     `json:"cluster_id,omitempty"`
	CanonicalID string     `json:"canonical_id,omitempty"`
	Similarity  float64    `json:"similarity,omitempty"`
}

// KeptRecord is a surviving record with its derived fields attached.
type KeptRecord struct {
	FunctionRecord
	Metrics   QualityMetrics `json:"metrics"`
	ClusterID uint64         `json:"cluster_id"`
	ExactHash string         `json:"exact_hash"`
}

// ClusterStat describes one dedup cluster in the run summary.
type ClusterStat struct {
	ClusterID uint64 `json:"cluster_id"`
	Size      int    `json:"size"`
}

// RunSummary aggregates the outcome of a curation run.
type RunSummary struct {
	TotalRecords     int            `json:"total_records"`
	Malformed        int            `json:"malformed"`
	Kept             int            `json:"kept"`
	Dropped          map[string]int `json:"dropped"`
	ExactUnique      int            `json:"exact_unique"`
	NearUnique       int            `json:"near_unique"`
	Clusters         []ClusterStat  `json:"clusters,omitempty"`
	ClusterSizeP50   float64        `json:"cluster_size_p50"`
	ClusterSizeP95   float64        `json:"cluster_size_p95"`
	DuplicationRatio float64        `json:"duplication_ratio"`
	HashCollisions   int            `json:"hash_collisions"`
}

// NewRunSummary creates an initialized summary.
func NewRunSummary() *RunSummary {
	return &RunSummary{
		Dropped: make(map[string]int),
	}
}

// AddDrop records a dropped record under its reason.
func (s *RunSummary) AddDrop(reason DropReason) {
	s.Dropped[reason.String()]++
}

// DroppedTotal returns the number of dropped records across all reasons.
func (s *RunSummary) DroppedTotal() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}
