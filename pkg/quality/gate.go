package quality

import (
	"fmt"

	"github.com/quarrylabs/quarry/pkg/models"
)

// Bounds are the configured limits a record must satisfy. A zero max means
// the bound is not enforced.
type Bounds struct {
	MinLOC         int
	MaxLOC         int
	MaxCyclomatic  int
	MaxNesting     int
	AllowSynthetic bool
}

// Gate evaluates records against structural bounds and the synthetic
// docstring policy. Evaluation is pure per record and independent of dedup
// order; parallel workers may share one Gate.
type Gate struct {
	enabled bool
	bounds  Bounds
	rules   *RuleTable
}

// Option is a functional option for configuring Gate.
type Option func(*Gate)

// WithBounds sets the metric bounds.
func WithBounds(b Bounds) Option {
	return func(g *Gate) {
		g.bounds = b
	}
}

// WithRuleTable replaces the synthetic-docstring rule table.
func WithRuleTable(t *RuleTable) Option {
	return func(g *Gate) {
		g.rules = t
	}
}

// WithEnabled toggles the whole gate. A disabled gate still computes
// metrics but passes every well-formed record.
func WithEnabled(enabled bool) Option {
	return func(g *Gate) {
		g.enabled = enabled
	}
}

// NewGate creates a gate with default bounds and the built-in rule table.
func NewGate(opts ...Option) *Gate {
	g := &Gate{
		enabled: true,
		bounds: Bounds{
			MinLOC:        3,
			MaxLOC:        200,
			MaxCyclomatic: 20,
			MaxNesting:    6,
		},
		rules: DefaultRuleTable(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate computes metrics for a record's normalized code and checks them
// against the bounds. It returns the metrics, whether the record passes,
// and a human-readable failure detail. Metrics are reported as measured,
// never corrected. ErrMalformed is returned for records whose code defeats
// metric computation.
func (g *Gate) Evaluate(normalized, docstring string) (models.QualityMetrics, bool, string, error) {
	m, err := Compute(normalized)
	if err != nil {
		return models.QualityMetrics{}, false, "", err
	}

	synthetic, rule := g.rules.Match(docstring)
	qm := models.QualityMetrics{
		LOC:          m.LOC,
		Cyclomatic:   m.Cyclomatic,
		MaxNesting:   m.MaxNesting,
		SyntheticDoc: synthetic,
	}

	if !g.enabled {
		return qm, true, "", nil
	}

	switch {
	case g.bounds.MinLOC > 0 && m.LOC < g.bounds.MinLOC:
		return qm, false, fmt.Sprintf("loc %d < min %d", m.LOC, g.bounds.MinLOC), nil
	case g.bounds.MaxLOC > 0 && m.LOC > g.bounds.MaxLOC:
		return qm, false, fmt.Sprintf("loc %d > max %d", m.LOC, g.bounds.MaxLOC), nil
	case g.bounds.MaxCyclomatic > 0 && m.Cyclomatic > g.bounds.MaxCyclomatic:
		return qm, false, fmt.Sprintf("cyclomatic %d > max %d", m.Cyclomatic, g.bounds.MaxCyclomatic), nil
	case g.bounds.MaxNesting > 0 && m.MaxNesting > g.bounds.MaxNesting:
		return qm, false, fmt.Sprintf("nesting %d > max %d", m.MaxNesting, g.bounds.MaxNesting), nil
	case synthetic && !g.bounds.AllowSynthetic:
		return qm, false, fmt.Sprintf("synthetic docstring (rule %s)", rule), nil
	}

	return qm, true, "", nil
}

// Enabled reports whether the gate filters records.
func (g *Gate) Enabled() bool {
	return g.enabled
}
