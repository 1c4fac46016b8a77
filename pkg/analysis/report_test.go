package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_SingleSharedKeywordNeverQualifies(t *testing.T) {
	set := NewProfileSet()
	// Huge score, but only one distinct keyword.
	set.Record("competitor.com", "seo tools", "", 1, 100000)
	set.Record("competitor.com", "seo tools", "", 1, 100000)

	report := BuildReport(set, 10, 10, Options{})

	assert.Empty(t, report.Competitors)
}

func TestBuildReport_MinOverlapPercent(t *testing.T) {
	set := NewProfileSet()
	// 2 distinct keywords out of 20 selected = 10% overlap, below the 20% bar.
	set.Record("competitor.com", "kw1", "", 1, 100)
	set.Record("competitor.com", "kw2", "", 1, 100)

	report := BuildReport(set, 20, 20, Options{})
	assert.Empty(t, report.Competitors)

	// Same evidence against 10 selected keywords = 20% overlap, qualifies.
	report = BuildReport(set, 10, 10, Options{})
	require.Len(t, report.Competitors, 1)
	assert.Equal(t, 20, report.Competitors[0].OverlapPercentage)
}

func TestBuildReport_TruncatesToTwelve(t *testing.T) {
	set := NewProfileSet()
	for i := 0; i < 20; i++ {
		domain := fmt.Sprintf("competitor-%02d.com", i)
		set.Record(domain, "kw1", "", 1, 100)
		set.Record(domain, "kw2", "", 1, 100)
	}

	report := BuildReport(set, 2, 2, Options{})

	assert.Len(t, report.Competitors, 12)
}

func TestBuildReport_SortsByOverlapTimesAuthority(t *testing.T) {
	set := NewProfileSet()
	// weak.com: 2 keywords at deep positions.
	set.Record("weak.com", "kw1", "", 9, 100)
	set.Record("weak.com", "kw2", "", 10, 100)
	// strong.com: 3 keywords at top positions.
	set.Record("strong.com", "kw1", "", 1, 100)
	set.Record("strong.com", "kw2", "", 1, 100)
	set.Record("strong.com", "kw3", "", 2, 100)

	report := BuildReport(set, 3, 3, Options{})

	require.Len(t, report.Competitors, 2)
	assert.Equal(t, "strong.com", report.Competitors[0].Domain)
	assert.Equal(t, "weak.com", report.Competitors[1].Domain)
}

func TestBuildReport_StableOrderOnTies(t *testing.T) {
	set := NewProfileSet()
	for _, domain := range []string{"zeta.com", "alpha.com", "mid.com"} {
		set.Record(domain, "kw1", "", 5, 100)
		set.Record(domain, "kw2", "", 5, 100)
	}

	report := BuildReport(set, 2, 2, Options{})

	require.Len(t, report.Competitors, 3)
	// Identical ranking keys keep first-seen order.
	assert.Equal(t, "zeta.com", report.Competitors[0].Domain)
	assert.Equal(t, "alpha.com", report.Competitors[1].Domain)
	assert.Equal(t, "mid.com", report.Competitors[2].Domain)
}

func TestBuildReport_CompetitorShape(t *testing.T) {
	set := NewProfileSet()
	set.Record("competitor.com", "seo tools", "Tools", 1, 1000)
	set.Record("competitor.com", "marketing agency", "Agency", 1, 500)

	report := BuildReport(set, 2, 5, Options{})

	require.Len(t, report.Competitors, 1)
	c := report.Competitors[0]

	assert.Equal(t, 2, c.OverlapCount)
	assert.Equal(t, 100, c.OverlapPercentage)
	assert.Equal(t, []string{"seo tools", "marketing agency"}, c.SharedKeywords)

	require.Len(t, c.Strengths, 3)
	assert.Equal(t, "Ranks for 2 shared keywords", c.Strengths[0])
	assert.Equal(t, "Average position 1", c.Strengths[1])
	assert.Equal(t, "High domain authority", c.Strengths[2])

	require.Len(t, c.Weaknesses, 2)
	assert.Equal(t, "Strong competition level", c.Weaknesses[0])
	assert.Equal(t, "Established market presence", c.Weaknesses[1])

	assert.Equal(t, TypeAspirational, c.CompetitorType)
	assert.Contains(t, c.AspirationalNote, fmt.Sprintf("%d/100", c.Authority))

	// Summary echoes the caller-supplied keyword count, not the selection.
	assert.Equal(t, 5, report.TotalKeywordsAnalyzed)
	assert.Equal(t, MethodSerperAPI, report.AnalysisMethod)
	assert.Zero(t, report.CreditsUsed)
}

func TestBuildReport_DirectCompetitorShape(t *testing.T) {
	set := NewProfileSet()
	set.Record("competitor.com", "kw1", "", 8, 100)
	set.Record("competitor.com", "kw2", "", 9, 100)

	report := BuildReport(set, 2, 2, Options{})

	require.Len(t, report.Competitors, 1)
	c := report.Competitors[0]

	assert.Equal(t, TypeDirect, c.CompetitorType)
	assert.Equal(t, "Similar market position", c.Strengths[2])
	assert.Equal(t, "Limited differentiation", c.Weaknesses[0])
	assert.Empty(t, c.AspirationalNote)
}

func TestBuildReport_MarketAnalysisAlwaysPresent(t *testing.T) {
	report := BuildReport(NewProfileSet(), 0, 4, Options{})

	require.NotNil(t, report.Analysis)
	assert.NotEmpty(t, report.Analysis.Opportunities)
	assert.NotEmpty(t, report.Analysis.Threats)
	assert.NotEmpty(t, report.Analysis.Recommendations)
	assert.Equal(t, "open", report.Analysis.MarketType)
	assert.Equal(t, "low", report.Analysis.CompetitionLevel)
	assert.Equal(t, 4, report.TotalKeywordsAnalyzed)
}
