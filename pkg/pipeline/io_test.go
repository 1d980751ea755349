package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/quarrylabs/quarry/pkg/models"
)

func TestReadRecords(t *testing.T) {
	input := strings.Join([]string{
		`{"repo":"r","commit":"c","file_path":"a.py","start_line":1,"end_line":2,"language":"python","name":"f","code":"def f():\n    pass\n"}`,
		``,
		`not json at all`,
		`{"repo":"r","commit":"c","file_path":"b.py","start_line":3,"end_line":4,"language":"python","name":"g","code":"def g():\n    pass\n"}`,
		`{"truncated`,
	}, "\n")

	records, skipped, err := ReadRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d, want 2", len(records))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if records[0].FilePath != "a.py" || records[1].FilePath != "b.py" {
		t.Errorf("records out of stream order: %q, %q", records[0].FilePath, records[1].FilePath)
	}
}

func TestReadRecords_Empty(t *testing.T) {
	records, skipped, err := ReadRecords(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 0 || skipped != 0 {
		t.Errorf("got %d records, %d skipped, want 0/0", len(records), skipped)
	}
}

func TestJSONLWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)

	kept := models.KeptRecord{
		FunctionRecord: models.FunctionRecord{
			Repo:     "r",
			Commit:   "c",
			FilePath: "a.py",
			Language: "python",
			Name:     "f",
			Code:     "def f():\n    pass\n",
		},
		Metrics:   models.QualityMetrics{LOC: 2, Cyclomatic: 1},
		ClusterID: 7,
		ExactHash: "deadbeef",
	}
	if err := w.Write(kept); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write(kept); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, `"cluster_id":7`) || !strings.Contains(line, `"exact_hash":"deadbeef"`) {
			t.Errorf("line missing fields: %s", line)
		}
	}
}
