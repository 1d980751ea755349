package quality

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule flags docstrings matching a known extractor-fabricated template.
// Rules are an explicit, versioned table so the heuristic stays auditable
// and testable instead of being buried in the gate.
type Rule struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`

	re *regexp.Regexp
}

// RuleTable is a versioned set of synthetic-docstring detection rules.
type RuleTable struct {
	Version string `yaml:"version" json:"version"`
	Rules   []Rule `yaml:"rules" json:"rules"`
}

// DefaultRuleTable returns the built-in rule set, matching the boilerplate
// templates known to be emitted by docstring-fabricating extractors.
func DefaultRuleTable() *RuleTable {
	t := &RuleTable{
		Version: "1",
		Rules: []Rule{
			{Name: "template-summary", Pattern: `(?i)briefly describe what this function does`},
			{Name: "template-args", Pattern: `(?i)arguments:\s*\n(?:- \w+: description\s*\n?)+`},
			{Name: "template-returns", Pattern: `(?i)returns:\s*\n- description`},
			{Name: "placeholder-todo", Pattern: `(?i)^\s*todo:?\s*(add|write)\s+(a\s+)?docstring`},
			{Name: "auto-generated", Pattern: `(?i)auto-?generated (docstring|documentation)`},
		},
	}
	if err := t.compile(); err != nil {
		panic(err) // built-in patterns are tested
	}
	return t
}

// LoadRuleTable reads a rule table from a YAML file and compiles its
// patterns.
func LoadRuleTable(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule table: %w", err)
	}

	var t RuleTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing rule table: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *RuleTable) compile() error {
	for i := range t.Rules {
		re, err := regexp.Compile(t.Rules[i].Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: %w", t.Rules[i].Name, err)
		}
		t.Rules[i].re = re
	}
	return nil
}

// Match reports whether a docstring trips any rule, and the name of the
// first rule that fired. An empty docstring never matches.
func (t *RuleTable) Match(docstring string) (bool, string) {
	if strings.TrimSpace(docstring) == "" {
		return false, ""
	}
	for _, r := range t.Rules {
		if r.re.MatchString(docstring) {
			return true, r.Name
		}
	}
	return false, ""
}
