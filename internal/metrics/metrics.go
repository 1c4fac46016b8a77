// Package metrics exposes prometheus instrumentation for the analysis
// service and an instrumented decorator for the SERP client.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rivalscan/pkg/serp"
)

// Outcome label values.
const (
	OutcomeOK            = "ok"
	OutcomeError         = "error"
	OutcomeBadRequest    = "bad_request"
	OutcomeNotConfigured = "not_configured"
	OutcomeFailed        = "failed"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rivalscan_analyses_total",
		Help: "Competitor analyses by outcome.",
	}, []string{"outcome"})

	serpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rivalscan_serp_requests_total",
		Help: "SERP provider lookups by outcome.",
	}, []string{"outcome"})

	serpRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rivalscan_serp_request_seconds",
		Help:    "SERP provider lookup latency.",
		Buckets: prometheus.DefBuckets,
	})
)

type instrumentedSerpClient struct {
	inner serp.Client
}

// InstrumentSerpClient wraps a SERP client so every lookup is counted and
// timed.
func InstrumentSerpClient(inner serp.Client) serp.Client {
	return &instrumentedSerpClient{inner: inner}
}

func (c *instrumentedSerpClient) Configured() bool {
	return c.inner.Configured()
}

func (c *instrumentedSerpClient) FullResults(ctx context.Context, keyword, region string, resultCount int) ([]serp.Hit, error) {
	start := time.Now()
	hits, err := c.inner.FullResults(ctx, keyword, region, resultCount)
	serpRequestDuration.Observe(time.Since(start).Seconds())

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	serpRequestsTotal.WithLabelValues(outcome).Inc()

	return hits, err
}
