package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Report thresholds and caps.
const (
	DefaultMinSharedKeywords = 2
	DefaultMinOverlapPercent = 20
	DefaultMaxCompetitors    = 12
)

// Fixed editorial advisory content emitted with every successful report.
// Not derived from the data.
var (
	advisoryOpportunities = []string{
		"Target long-tail variants of the shared keywords where top positions are weakest",
		"Deepen topical coverage on pages that already rank inside the top 20",
		"Close content gaps on keywords where competitors rank and the target does not",
	}
	advisoryThreats = []string{
		"Established competitors hold strong positions across the shared keyword set",
		"High-authority domains can outrank fresh content quickly",
	}
	advisoryRecommendations = []string{
		"Prioritise keywords where competitor positions sit below the fold",
		"Strengthen on-page signals for pages already visible in search",
		"Re-run the analysis periodically to track competitor movement",
	}
)

// BuildReport filters accumulated profiles by the minimum-overlap
// thresholds, scores each surviving domain and returns the ranked, capped
// competitor list with the market summary attached.
//
// selectedCount is the number of keywords actually analyzed (the overlap
// denominator); totalKeywords is the caller-supplied keyword count echoed
// back in the summary.
func BuildReport(profiles *ProfileSet, selectedCount, totalKeywords int, opts Options) *Report {
	opts = opts.withDefaults()

	competitors := make([]ScoredCompetitor, 0, profiles.Len())
	for _, p := range profiles.All() {
		shared := p.DistinctKeywords()
		if len(shared) < opts.MinSharedKeywords || selectedCount == 0 {
			continue
		}
		overlapPct := int(math.Round(float64(len(shared)) / float64(selectedCount) * 100))
		if overlapPct < opts.MinOverlapPercent {
			continue
		}

		authority := EstimateAuthority(p.Positions, p.TotalScore)
		competitors = append(competitors, ScoredCompetitor{
			Domain:            p.Domain,
			OverlapCount:      len(shared),
			OverlapPercentage: overlapPct,
			Authority:         authority,
			CompetitorType:    ClassifyCompetitor(authority),
			SharedKeywords:    shared,
			Strengths:         buildStrengths(len(shared), p.AveragePosition(), authority),
			Weaknesses:        buildWeaknesses(authority),
			AspirationalNote:  buildAspirationalNote(authority),
		})
	}

	// Rank by overlap × authority: a single scalar biased toward domains
	// that are both broadly overlapping and authoritative. The stable sort
	// preserves first-seen order on ties.
	sort.SliceStable(competitors, func(i, j int) bool {
		return competitors[i].OverlapPercentage*competitors[i].Authority >
			competitors[j].OverlapPercentage*competitors[j].Authority
	})
	if len(competitors) > opts.MaxCompetitors {
		competitors = competitors[:opts.MaxCompetitors]
	}

	direct, aspirational := 0, 0
	for _, c := range competitors {
		if c.CompetitorType == TypeAspirational {
			aspirational++
		} else {
			direct++
		}
	}

	return &Report{
		Competitors:           competitors,
		TotalKeywordsAnalyzed: totalKeywords,
		AnalysisMethod:        MethodSerperAPI,
		CreditsUsed:           0,
		Analysis:              buildMarketAnalysis(direct, aspirational),
	}
}

func buildStrengths(sharedCount int, avgPosition float64, authority int) []string {
	position := fmt.Sprintf("Average position %d", int(math.Round(avgPosition)))
	standing := "Similar market position"
	if authority > aspirationalThreshold {
		standing = "High domain authority"
	}
	return []string{
		fmt.Sprintf("Ranks for %d shared keywords", sharedCount),
		position,
		standing,
	}
}

func buildWeaknesses(authority int) []string {
	level := "Limited differentiation"
	if authority > aspirationalThreshold {
		level = "Strong competition level"
	}
	return []string{level, "Established market presence"}
}

func buildAspirationalNote(authority int) string {
	if authority <= aspirationalThreshold {
		return ""
	}
	return fmt.Sprintf(
		"With an estimated authority of %d/100 this domain is out of direct reach; study its keyword and content strategy rather than targeting it head-on.",
		authority,
	)
}

func buildMarketAnalysis(direct, aspirational int) *MarketAnalysis {
	total := direct + aspirational

	marketType := "open"
	switch {
	case total >= 6:
		marketType = "saturated"
	case total > 0:
		marketType = "competitive"
	}

	competitionLevel := "low"
	switch {
	case aspirational > 0:
		competitionLevel = "high"
	case total > 0:
		competitionLevel = "moderate"
	}

	return &MarketAnalysis{
		MarketType:              marketType,
		CompetitionLevel:        competitionLevel,
		DirectCompetitors:       direct,
		AspirationalCompetitors: aspirational,
		Opportunities:           advisoryOpportunities,
		Threats:                 advisoryThreats,
		Recommendations:         advisoryRecommendations,
	}
}
