// Package serp wraps the external search-results provider. The analysis
// engine consumes the Client interface only; the concrete Serper transport,
// retry policy and response cache live behind it.
package serp

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when the provider has no API key wired.
	ErrNotConfigured = errors.New("serp provider not configured")
	// ErrEmptyKeyword is returned for a blank keyword query.
	ErrEmptyKeyword = errors.New("keyword must not be empty")
)

// Hit is one organic result for a keyword query. Position is the 1-based
// rank on the results page (1 = top).
type Hit struct {
	Domain   string `json:"domain"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Client is the provider contract consumed by the analysis engine.
// Configured is checked once before a batch begins; FullResults returns up
// to resultCount hits ordered by position.
type Client interface {
	Configured() bool
	FullResults(ctx context.Context, keyword, region string, resultCount int) ([]Hit, error)
}
