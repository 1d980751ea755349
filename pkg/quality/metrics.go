// Package quality computes structural metrics for code records and filters
// them against configured bounds.
package quality

import (
	"errors"
	"strings"
)

// ErrMalformed indicates a record whose code is missing or defeats metric
// computation. Callers drop such records with a parse-failure reason and
// continue the run.
var ErrMalformed = errors.New("malformed record")

// Metrics holds the structural measurements for one record.
type Metrics struct {
	LOC        int
	Cyclomatic int
	MaxNesting int
}

// decisionTokens are the tokens counted as decision points for cyclomatic
// complexity: conditionals, loop constructs, boolean short-circuit
// operators, and exception handlers.
var decisionTokens = map[string]bool{
	"if": true, "elif": true,
	"for": true, "while": true, "case": true,
	"&&": true, "||": true, "and": true, "or": true,
	"except": true, "catch": true, "rescue": true,
	"?": true,
}

// Compute measures LOC, cyclomatic complexity, and maximum lexical nesting
// depth for normalized code. It is a pure function; parallel workers may
// call it freely.
func Compute(code string) (Metrics, error) {
	if strings.TrimSpace(code) == "" {
		return Metrics{}, ErrMalformed
	}

	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	m := Metrics{
		LOC:        len(lines),
		Cyclomatic: cyclomatic(lines),
		MaxNesting: maxNesting(lines),
	}
	return m, nil
}

// cyclomatic counts decision points plus one baseline path.
func cyclomatic(lines []string) int {
	count := 1
	for _, line := range lines {
		for _, tok := range splitCodeTokens(line) {
			if decisionTokens[tok] {
				count++
			}
		}
	}
	return count
}

// splitCodeTokens splits a line into words and the boolean operators that
// matter for decision counting. A full tokenizer is unnecessary here; word
// boundaries plus && and || cover the counted constructs.
func splitCodeTokens(line string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			word.WriteRune(c)
		case (c == '&' || c == '|') && i+1 < len(runes) && runes[i+1] == c:
			flush()
			tokens = append(tokens, string([]rune{c, c}))
			i++
		case c == '?':
			flush()
			tokens = append(tokens, "?")
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// maxNesting measures the deepest lexical nesting. Brace languages are
// tracked by unmatched open braces; indentation-scoped code falls back to
// indent depth relative to the shallowest code line.
func maxNesting(lines []string) int {
	braceDepth, maxBrace := 0, 0
	sawBrace := false

	for _, line := range lines {
		for _, c := range line {
			switch c {
			case '{':
				sawBrace = true
				braceDepth++
				if braceDepth > maxBrace {
					maxBrace = braceDepth
				}
			case '}':
				if braceDepth > 0 {
					braceDepth--
				}
			}
		}
	}
	if sawBrace {
		return maxBrace
	}
	return indentDepth(lines)
}

// indentDepth estimates nesting from indentation for brace-free code. A
// tab or four spaces count as one level; the first line's indent is the
// zero level.
func indentDepth(lines []string) int {
	base := -1
	max := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := 0
		col := 0
		for _, c := range line {
			if c == '\t' {
				indent++
			} else if c == ' ' {
				col++
				if col == 4 {
					indent++
					col = 0
				}
			} else {
				break
			}
		}
		if base == -1 {
			base = indent
		}
		if d := indent - base; d > max {
			max = d
		}
	}
	return max
}
