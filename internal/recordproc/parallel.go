// Package recordproc provides concurrent record processing utilities.
package recordproc

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker
// count. The per-record work is CPU-bound, so 2x keeps cores busy without
// oversubscribing.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each record is processed.
type ProgressFunc func()

// MapOrdered applies fn to every item in parallel and returns the results
// in input order. fn must be pure with respect to shared state; results are
// written to pre-assigned slots so no ordering is lost to scheduling.
func MapOrdered[T any, R any](items []T, maxWorkers int, fn func(T) R, onProgress ProgressFunc) []R {
	if len(items) == 0 {
		return nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]R, len(items))

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, item := range items {
		i, item := i, item
		p.Go(func() {
			results[i] = fn(item)
			if onProgress != nil {
				onProgress()
			}
		})
	}
	p.Wait()

	return results
}
