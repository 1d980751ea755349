package dedup

import "testing"

func TestExactIndex_FirstArrivalWins(t *testing.T) {
	ix := NewExactIndex()

	dup, canonical := ix.Insert("a", "def f():\n    return 1\n")
	if dup {
		t.Error("first insert should not be a duplicate")
	}
	if canonical != "a" {
		t.Errorf("canonical = %q, want %q", canonical, "a")
	}

	dup, canonical = ix.Insert("b", "def f():\n    return 1\n")
	if !dup {
		t.Error("identical text should be a duplicate")
	}
	if canonical != "a" {
		t.Errorf("canonical = %q, want %q (first arrival)", canonical, "a")
	}

	dup, _ = ix.Insert("c", "def g():\n    return 2\n")
	if dup {
		t.Error("distinct text should not be a duplicate")
	}

	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}
	if ix.Collisions() != 0 {
		t.Errorf("Collisions() = %d, want 0", ix.Collisions())
	}
}

func TestHashText_Deterministic(t *testing.T) {
	a := HashText("def f():\n    return 1\n")
	b := HashText("def f():\n    return 1\n")
	if a != b {
		t.Error("identical text must hash identically")
	}
	if len(a) != 64 {
		t.Errorf("digest hex length = %d, want 64", len(a))
	}

	c := HashText("def f():\n    return 2\n")
	if a == c {
		t.Error("distinct text should not collide")
	}
}
