package dedup

import (
	"encoding/binary"
	"strings"

	"github.com/zeebo/blake3"
)

// Tokenize splits normalized code into code-aware tokens: string literals,
// numbers, identifiers, multi-character operators, and single-character
// delimiters. Whitespace separates tokens and is discarded.
func Tokenize(content string) []string {
	var tokens []string
	runes := []rune(content)
	i := 0

	for i < len(runes) {
		c := runes[i]

		if isWhitespace(c) {
			i++
			continue
		}

		if c == '"' || c == '\'' || c == '`' {
			tokens = append(tokens, collectStringLiteral(runes, &i, c))
			continue
		}

		if isDigit(c) {
			tokens = append(tokens, collectNumber(runes, &i))
			continue
		}

		if isIdentifierStart(c) {
			tokens = append(tokens, collectIdentifier(runes, &i))
			continue
		}

		if op := collectOperator(runes, &i); op != "" {
			tokens = append(tokens, op)
			continue
		}

		tokens = append(tokens, string(c))
		i++
	}

	return tokens
}

// collectStringLiteral collects a string literal including quotes.
func collectStringLiteral(runes []rune, i *int, quote rune) string {
	var sb strings.Builder
	sb.WriteRune(runes[*i])
	*i++

	for *i < len(runes) {
		c := runes[*i]
		sb.WriteRune(c)
		*i++

		if c == quote {
			break
		}
		if c == '\\' && *i < len(runes) {
			sb.WriteRune(runes[*i])
			*i++
		}
	}

	return sb.String()
}

// collectNumber collects a numeric literal, including hex, octal, binary,
// and exponent forms.
func collectNumber(runes []rune, i *int) string {
	var sb strings.Builder

	for *i < len(runes) {
		c := runes[*i]
		if isDigit(c) || c == '.' || c == '_' || c == 'x' || c == 'X' ||
			c == 'b' || c == 'B' || c == 'o' || c == 'O' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
			c == 'e' || c == 'E' {
			sb.WriteRune(c)
			*i++
		} else {
			break
		}
	}

	return sb.String()
}

// collectIdentifier collects an identifier or keyword.
func collectIdentifier(runes []rune, i *int) string {
	var sb strings.Builder

	for *i < len(runes) {
		c := runes[*i]
		if isIdentifierChar(c) {
			sb.WriteRune(c)
			*i++
		} else {
			break
		}
	}

	return sb.String()
}

// collectOperator collects multi-character operators.
func collectOperator(runes []rune, i *int) string {
	if *i >= len(runes) {
		return ""
	}

	if *i+2 < len(runes) {
		op3 := string(runes[*i : *i+3])
		if op3 == "<<=" || op3 == ">>=" || op3 == "..." || op3 == "===" || op3 == "!==" || op3 == "**=" {
			*i += 3
			return op3
		}
	}

	if *i+1 < len(runes) {
		op2 := string(runes[*i : *i+2])
		switch op2 {
		case "==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
			"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
			"++", "--", "->", "=>", "::", "..", "??", "**", ":=":
			*i += 2
			return op2
		}
	}

	return ""
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentifierStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentifierChar(c rune) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// ShingleSet builds the set of k-token window hashes for a token sequence.
// Each window is blake3-hashed to a uint64 and duplicate windows collapse.
// A sequence shorter than k yields a single hash of the whole sequence so
// short records still produce a comparable fingerprint.
func ShingleSet(tokens []string, k int) []uint64 {
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) < k {
		return []uint64{hashWindow(tokens)}
	}

	set := make(map[uint64]struct{}, len(tokens)-k+1)
	for i := 0; i+k <= len(tokens); i++ {
		set[hashWindow(tokens[i:i+k])] = struct{}{}
	}

	shingles := make([]uint64, 0, len(set))
	for h := range set {
		shingles = append(shingles, h)
	}
	return shingles
}

// hashWindow hashes a token window to a uint64. Tokens are separated by a
// NUL byte so adjacent tokens cannot merge into a colliding window.
func hashWindow(tokens []string) uint64 {
	h := blake3.New()
	for i, t := range tokens {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(t))
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}
