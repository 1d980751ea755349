// Package normalize canonicalizes raw code text into a stable comparison form.
package normalize

import "strings"

// Normalize returns the canonical form of code: line endings unified to \n,
// trailing whitespace stripped per line, runs of blank lines collapsed to
// one, leading/trailing blank lines trimmed, and exactly one trailing
// newline. Indentation and semantic content are preserved.
//
// Normalize is a fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(code string) string {
	if code == "" {
		return ""
	}

	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")

	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}

	norm := strings.Trim(strings.Join(out, "\n"), "\n")
	if norm == "" {
		return ""
	}
	return norm + "\n"
}
