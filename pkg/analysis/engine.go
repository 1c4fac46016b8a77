package analysis

import (
	"context"

	"rivalscan/pkg/logger"
	"rivalscan/pkg/serp"
)

// DefaultPositionWindow is the deepest rank that counts as competitive
// signal. The provider may return more results per query; anything below
// the window is ignored.
const DefaultPositionWindow = 10

// Gate spaces successive provider calls. ratelimit.Gate satisfies it; tests
// substitute a no-op.
type Gate interface {
	Wait(ctx context.Context) error
}

// Options tune the engine. Zero values fall back to the package defaults.
type Options struct {
	Region            string
	ResultCount       int
	KeywordLimit      int
	PositionWindow    int
	MinSharedKeywords int
	MinOverlapPercent int
	MaxCompetitors    int
}

func (o Options) withDefaults() Options {
	if o.ResultCount <= 0 {
		o.ResultCount = 20
	}
	if o.KeywordLimit <= 0 {
		o.KeywordLimit = DefaultKeywordLimit
	}
	if o.PositionWindow <= 0 {
		o.PositionWindow = DefaultPositionWindow
	}
	if o.MinSharedKeywords <= 0 {
		o.MinSharedKeywords = DefaultMinSharedKeywords
	}
	if o.MinOverlapPercent <= 0 {
		o.MinOverlapPercent = DefaultMinOverlapPercent
	}
	if o.MaxCompetitors <= 0 {
		o.MaxCompetitors = DefaultMaxCompetitors
	}
	return o
}

// Engine runs the competitor discovery pipeline against an injected SERP
// client. It holds no per-request state; every Analyze call is independent.
type Engine struct {
	client serp.Client
	gate   Gate
	opts   Options
	log    *logger.Logger
}

// NewEngine wires the engine. gate may be nil, in which case keyword
// lookups are issued back to back.
func NewEngine(client serp.Client, gate Gate, opts Options) *Engine {
	return &Engine{
		client: client,
		gate:   gate,
		opts:   opts.withDefaults(),
		log:    logger.GetLogger().Component("analysis_engine"),
	}
}

// Analyze runs the full pipeline for one request.
//
// The provider configuration is checked once before any per-keyword work;
// an unconfigured provider short-circuits with serp.ErrNotConfigured and a
// well-formed not-configured report. Per-keyword provider failures are
// logged and contribute zero hits without aborting the batch. When the
// caller's deadline expires mid-batch the report is built from whatever
// accumulated so far.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Report, error) {
	if !e.client.Configured() {
		return &Report{
			Competitors:           []ScoredCompetitor{},
			TotalKeywordsAnalyzed: len(req.Keywords),
			AnalysisMethod:        MethodNotConfigured,
			Error:                 "SERP provider is not configured; set an API key to enable competitor analysis",
		}, serp.ErrNotConfigured
	}

	filter := NewFilter(req.Domain)
	selected := SelectKeywords(req.Keywords, e.opts.KeywordLimit)
	profiles := NewProfileSet()
	lookups := make([]KeywordLookup, 0, len(selected))

	e.log.WithFields(map[string]interface{}{
		"target":            filter.Target(),
		"keywords_supplied": len(req.Keywords),
		"keywords_selected": len(selected),
	}).Info("Starting competitor analysis")

	for i, kw := range selected {
		// Throttle between provider calls; an expired deadline here means
		// we publish the partial result accumulated so far.
		if i > 0 && e.gate != nil {
			if err := e.gate.Wait(ctx); err != nil {
				e.log.WithError(err).Warn("Deadline reached mid-batch, returning partial result")
				break
			}
		}
		if ctx.Err() != nil {
			e.log.WithError(ctx.Err()).Warn("Deadline reached mid-batch, returning partial result")
			break
		}

		hits, err := e.client.FullResults(ctx, kw.Keyword, e.opts.Region, e.opts.ResultCount)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			e.log.WithError(err).WithField("keyword", kw.Keyword).Warn("Keyword lookup failed, counting zero hits")
			lookups = append(lookups, KeywordLookup{Keyword: kw.Keyword, Err: err})
			continue
		}

		counted := 0
		for _, h := range hits {
			if h.Position < 1 || h.Position > e.opts.PositionWindow {
				continue
			}
			domain := NormalizeDomain(h.Domain)
			if !filter.Eligible(domain) {
				continue
			}
			profiles.Record(domain, kw.Keyword, h.Title, h.Position, kw.Volume)
			counted++
		}
		lookups = append(lookups, KeywordLookup{Keyword: kw.Keyword, Hits: counted})
	}

	report := BuildReport(profiles, len(selected), len(req.Keywords), e.opts)
	report.Lookups = lookups

	// Selected keywords the deadline cut off never produced a lookup record;
	// they count as failed alongside errored lookups.
	report.KeywordsFailed = len(selected) - len(lookups)
	for _, l := range lookups {
		if l.Failed() {
			report.KeywordsFailed++
		}
	}

	e.log.WithFields(map[string]interface{}{
		"target":      filter.Target(),
		"competitors": len(report.Competitors),
		"lookups":     len(lookups),
	}).Info("Competitor analysis completed")

	return report, nil
}
