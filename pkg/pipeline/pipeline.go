// Package pipeline drives records through the quality gate, exact dedup,
// and near-dup resolution, and emits kept records with a run summary.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/quarrylabs/quarry/internal/recordproc"
	"github.com/quarrylabs/quarry/pkg/config"
	"github.com/quarrylabs/quarry/pkg/dedup"
	"github.com/quarrylabs/quarry/pkg/models"
	"github.com/quarrylabs/quarry/pkg/normalize"
	"github.com/quarrylabs/quarry/pkg/quality"
	"github.com/quarrylabs/quarry/pkg/stats"
)

// Pipeline owns all mutable dedup state for one run: the exact-hash index
// and the LSH buckets. State is explicit and per-run, never process-wide,
// so runs compose and test in isolation.
type Pipeline struct {
	cfg      *config.Config
	gate     *quality.Gate
	hasher   *dedup.MinHasher
	exact    *dedup.ExactIndex
	resolver *dedup.Resolver
	workers  int

	onDecision func(rec models.FunctionRecord, d models.Decision)
}

// Option is a functional option for configuring Pipeline.
type Option func(*Pipeline)

// WithDecisionHook registers a callback invoked with every record's
// terminal decision, in processing order.
func WithDecisionHook(fn func(rec models.FunctionRecord, d models.Decision)) Option {
	return func(p *Pipeline) {
		p.onDecision = fn
	}
}

// New validates cfg and builds a pipeline. Configuration errors are fatal
// and reported before any record is processed.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rules := quality.DefaultRuleTable()
	if cfg.Quality.RuleFile != "" {
		loaded, err := quality.LoadRuleTable(cfg.Quality.RuleFile)
		if err != nil {
			return nil, fmt.Errorf("loading synthetic docstring rules: %w", err)
		}
		rules = loaded
	}

	gate := quality.NewGate(
		quality.WithEnabled(cfg.Quality.Enabled),
		quality.WithRuleTable(rules),
		quality.WithBounds(quality.Bounds{
			MinLOC:         cfg.Quality.MinLOC,
			MaxLOC:         cfg.Quality.MaxLOC,
			MaxCyclomatic:  cfg.Quality.MaxCyclomatic,
			MaxNesting:     cfg.Quality.MaxNesting,
			AllowSynthetic: cfg.Quality.AllowSynthetic,
		}),
	)

	bands, rows := cfg.Dedup.Bands, cfg.Dedup.Rows
	if bands == 0 {
		bands, rows = dedup.BandsForThreshold(cfg.Dedup.Permutations, cfg.Dedup.Threshold)
	}

	p := &Pipeline{
		cfg:      cfg,
		gate:     gate,
		hasher:   dedup.NewMinHasher(cfg.Dedup.Permutations, cfg.Dedup.Seed),
		exact:    dedup.NewExactIndex(),
		resolver: dedup.NewResolver(dedup.NewLSHIndex(bands, rows), cfg.Dedup.Threshold),
		workers:  cfg.Pipeline.Workers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// prepared holds the pure per-record computations from the parallel phase.
// Nothing in it touches shared state, so worker scheduling cannot affect
// clustering outcomes.
type prepared struct {
	normalized string
	metrics    models.QualityMetrics
	pass       bool
	detail     string
	malformed  bool
	signature  *dedup.Signature
}

// Run processes records in their given order and appends kept records to w.
// The kept set is deterministic for a fixed input order and configuration.
// Each record resolves to exactly one terminal state before the next is
// considered; a context cancellation takes effect only between records, so
// the output stream stays valid up to the last fully appended record.
func (p *Pipeline) Run(ctx context.Context, records []models.FunctionRecord, w RecordWriter, onProgress recordproc.ProgressFunc) (*models.RunSummary, error) {
	summary := models.NewRunSummary()
	summary.TotalRecords = len(records)

	// Parallel phase: normalization, metrics, and signatures are pure
	// per-record functions.
	prep := recordproc.MapOrdered(records, p.workers, p.prepare, onProgress)

	// Sequential phase: single-writer fold over the indexes, in input order.
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		d := p.resolve(rec, prep[i], summary)
		if p.onDecision != nil {
			p.onDecision(rec, d)
		}

		if !d.Kept {
			continue
		}
		kept := models.KeptRecord{
			FunctionRecord: rec,
			Metrics:        prep[i].metrics,
			ClusterID:      d.ClusterID,
			ExactHash:      dedup.HashText(prep[i].normalized),
		}
		if err := w.Write(kept); err != nil {
			return summary, fmt.Errorf("writing kept record: %w", err)
		}
		summary.Kept++
	}

	p.finalize(summary)
	return summary, nil
}

// prepare runs the pure per-record computations.
func (p *Pipeline) prepare(rec models.FunctionRecord) prepared {
	normalized := normalize.Normalize(rec.Code)

	metrics, pass, detail, err := p.gate.Evaluate(normalized, rec.Docstring)
	if err != nil {
		// quality.ErrMalformed: the record cannot be measured.
		return prepared{malformed: true}
	}

	tokens := dedup.Tokenize(normalized)
	shingles := dedup.ShingleSet(tokens, p.cfg.Dedup.ShingleSize)

	return prepared{
		normalized: normalized,
		metrics:    metrics,
		pass:       pass,
		detail:     detail,
		signature:  p.hasher.Sign(shingles),
	}
}

// resolve walks one record through its terminal-state chain:
// quality -> exact dedup -> near dedup -> kept.
func (p *Pipeline) resolve(rec models.FunctionRecord, pr prepared, summary *models.RunSummary) models.Decision {
	if pr.malformed {
		summary.Malformed++
		summary.AddDrop(models.DropParse)
		return models.Decision{Reason: models.DropParse, Detail: "PARSE_FAILURE"}
	}

	if !pr.pass {
		summary.AddDrop(models.DropQuality)
		return models.Decision{Reason: models.DropQuality, Detail: pr.detail}
	}

	if dup, canonicalID := p.exact.Insert(recordID(rec), pr.normalized); dup {
		summary.AddDrop(models.DropExactDup)
		return models.Decision{Reason: models.DropExactDup, CanonicalID: canonicalID}
	}

	match, clusterID := p.resolver.Resolve(pr.signature)
	if match != nil {
		summary.AddDrop(models.DropNearDup)
		return models.Decision{
			Reason:     models.DropNearDup,
			ClusterID:  clusterID,
			Similarity: match.Similarity,
		}
	}

	return models.Decision{Kept: true, ClusterID: clusterID}
}

// finalize computes the derived summary fields.
func (p *Pipeline) finalize(summary *models.RunSummary) {
	summary.HashCollisions = p.exact.Collisions()
	summary.ExactUnique = summary.Kept + summary.Dropped[models.DropNearDup.String()]
	summary.NearUnique = summary.Kept

	sizes := p.resolver.ClusterSizes()
	dist := make([]float64, 0, len(sizes))
	for id, size := range sizes {
		summary.Clusters = append(summary.Clusters, models.ClusterStat{ClusterID: id, Size: size})
		dist = append(dist, float64(size))
	}
	sort.Slice(summary.Clusters, func(i, j int) bool {
		return summary.Clusters[i].ClusterID < summary.Clusters[j].ClusterID
	})
	summary.ClusterSizeP50 = stats.Percentile(dist, 50)
	summary.ClusterSizeP95 = stats.Percentile(dist, 95)

	if summary.TotalRecords > 0 {
		dups := summary.Dropped[models.DropExactDup.String()] + summary.Dropped[models.DropNearDup.String()]
		summary.DuplicationRatio = float64(dups) / float64(summary.TotalRecords)
	}
}

// recordID is the provenance identifier attached to dedup decisions.
func recordID(rec models.FunctionRecord) string {
	return fmt.Sprintf("%s@%s:%s:%d-%d", rec.Repo, rec.Commit, rec.FilePath, rec.StartLine, rec.EndLine)
}
