package pipeline

import (
	"encoding/json"
	"io"

	"github.com/quarrylabs/quarry/pkg/models"
)

// RecordWriter receives kept records in processing order. Write is the
// terminal step per record; implementations must append atomically enough
// that an abort between calls leaves all prior records intact.
type RecordWriter interface {
	Write(rec models.KeptRecord) error
}

// JSONLWriter appends kept records as one JSON object per line.
type JSONLWriter struct {
	enc *json.Encoder
}

// NewJSONLWriter creates a writer appending to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{enc: json.NewEncoder(w)}
}

// Write appends one record. json.Encoder terminates each object with a
// newline, so the stream is truncatable at any record boundary.
func (w *JSONLWriter) Write(rec models.KeptRecord) error {
	return w.enc.Encode(rec)
}

// CollectWriter accumulates kept records in memory, for tests and small runs.
type CollectWriter struct {
	Records []models.KeptRecord
}

// Write appends one record.
func (w *CollectWriter) Write(rec models.KeptRecord) error {
	w.Records = append(w.Records, rec)
	return nil
}
