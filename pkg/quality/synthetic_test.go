package quality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleTable_MatchesTemplates(t *testing.T) {
	rules := DefaultRuleTable()
	require.NotEmpty(t, rules.Version)

	matched, rule := rules.Match("f(a, b)\n\nBriefly describe what this function does.\nArguments:\n- a: description\n- b: description\nReturns:\n- description")
	assert.True(t, matched)
	assert.Equal(t, "template-summary", rule)

	matched, _ = rules.Match("Returns:\n- description")
	assert.True(t, matched)

	matched, _ = rules.Match("TODO: add docstring")
	assert.True(t, matched)
}

func TestDefaultRuleTable_AuthoredTextPasses(t *testing.T) {
	rules := DefaultRuleTable()

	authored := []string{
		"Parse the config file and return the merged settings.",
		"Returns the number of records kept after filtering.",
		"Compute the MinHash signature for a token stream.\n\nArguments are validated by the caller.",
		"",
		"   ",
	}
	for _, doc := range authored {
		matched, rule := rules.Match(doc)
		assert.False(t, matched, "docstring %q tripped rule %q", doc, rule)
	}
}

func TestLoadRuleTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `version: "2"
rules:
  - name: corp-stub
    pattern: '(?i)^stub docstring'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRuleTable(path)
	require.NoError(t, err)
	assert.Equal(t, "2", rules.Version)

	matched, rule := rules.Match("Stub docstring for generated code")
	assert.True(t, matched)
	assert.Equal(t, "corp-stub", rule)

	matched, _ = rules.Match("Real documentation")
	assert.False(t, matched)
}

func TestLoadRuleTable_BadPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\nrules:\n  - name: broken\n    pattern: '['\n"), 0o644))

	_, err := LoadRuleTable(path)
	assert.Error(t, err)
}
