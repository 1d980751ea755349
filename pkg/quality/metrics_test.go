package quality

import (
	"errors"
	"testing"
)

func TestCompute_LOC(t *testing.T) {
	m, err := Compute("def f(x):\n    return x+1\n")
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.LOC != 2 {
		t.Errorf("LOC = %d, want 2", m.LOC)
	}
}

func TestCompute_Malformed(t *testing.T) {
	for _, code := range []string{"", "   \n\t\n"} {
		_, err := Compute(code)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Compute(%q) error = %v, want ErrMalformed", code, err)
		}
	}
}

func TestCompute_Cyclomatic(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"straight line", "x = 1\ny = 2\n", 1},
		{"single if", "if x:\n    y = 1\n", 2},
		{"if elif", "if x:\n    y = 1\nelif z:\n    y = 2\n", 3},
		{"boolean short circuit", "if a and b or c:\n    pass\n", 4},
		{"go operators", "if a && b || c {\n\treturn\n}\n", 4},
		{"loop and handler", "for i in xs:\n    try:\n        f(i)\n    except ValueError:\n        pass\n", 3},
		{"identifiers not counted", "iffy = formula\nandor = 1\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compute(tt.code)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if m.Cyclomatic != tt.want {
				t.Errorf("Cyclomatic = %d, want %d", m.Cyclomatic, tt.want)
			}
		})
	}
}

func TestCompute_NestingBraces(t *testing.T) {
	code := "func f() {\n\tif a {\n\t\tfor {\n\t\t\tx()\n\t\t}\n\t}\n}\n"
	m, err := Compute(code)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.MaxNesting != 3 {
		t.Errorf("MaxNesting = %d, want 3", m.MaxNesting)
	}
}

func TestCompute_NestingIndentation(t *testing.T) {
	code := "def f(x):\n    if x:\n        for i in x:\n            g(i)\n"
	m, err := Compute(code)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.MaxNesting != 3 {
		t.Errorf("MaxNesting = %d, want 3", m.MaxNesting)
	}
}
