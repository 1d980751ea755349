package recordproc

import (
	"sync/atomic"
	"testing"
)

func TestMapOrdered_PreservesOrder(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}

	results := MapOrdered(items, 8, func(v int) int { return v * 2 }, nil)

	if len(results) != len(items) {
		t.Fatalf("result count = %d, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, r, i*2)
		}
	}
}

func TestMapOrdered_Empty(t *testing.T) {
	if got := MapOrdered(nil, 4, func(v int) int { return v }, nil); got != nil {
		t.Errorf("MapOrdered(nil) = %v, want nil", got)
	}
}

func TestMapOrdered_Progress(t *testing.T) {
	var ticks atomic.Int64
	MapOrdered([]int{1, 2, 3, 4, 5}, 2, func(v int) int { return v }, func() {
		ticks.Add(1)
	})

	if ticks.Load() != 5 {
		t.Errorf("progress ticks = %d, want 5", ticks.Load())
	}
}

func TestMapOrdered_DefaultWorkerCount(t *testing.T) {
	results := MapOrdered([]string{"a", "b"}, 0, func(s string) string { return s + s }, nil)
	if results[0] != "aa" || results[1] != "bb" {
		t.Errorf("unexpected results: %v", results)
	}
}
