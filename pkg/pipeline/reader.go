package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/quarrylabs/quarry/pkg/models"
)

// maxLineBytes bounds a single JSONL line; extracted functions larger than
// this are rejected upstream.
const maxLineBytes = 16 * 1024 * 1024

// ReadRecords decodes a JSONL stream of function records. Lines that fail
// to decode are skipped and counted rather than aborting the run; the
// caller reports the count. Record order is the stream order and fixes the
// deterministic processing order for the whole run.
func ReadRecords(r io.Reader) (records []models.FunctionRecord, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec models.FunctionRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading records: %w", err)
	}

	return records, skipped, nil
}
