package analysis

import "math"

const (
	minAuthority = 15
	maxAuthority = 95

	// aspirationalThreshold splits direct rivals from benchmark domains.
	aspirationalThreshold = 60
)

// EstimateAuthority converts the positions observed for one domain and its
// accumulated weighted score into a 15-95 authority estimate. The estimate
// is heuristic and derives only from this analysis, not a third-party
// authority metric. Deterministic given the inputs.
func EstimateAuthority(positions []int, totalScore float64) int {
	if len(positions) == 0 {
		return minAuthority
	}

	sum, topPositions := 0, 0
	for _, p := range positions {
		sum += p
		if p <= 3 {
			topPositions++
		}
	}
	avgPosition := float64(sum) / float64(len(positions))

	score := 30.0
	switch {
	case avgPosition <= 3:
		score += 40
	case avgPosition <= 5:
		score += 25
	case avgPosition <= 10:
		score += 10
	}
	score += float64(topPositions * 5)

	scoreBonus := totalScore / 100
	if scoreBonus > 20 {
		scoreBonus = 20
	}
	score += scoreBonus

	authority := int(math.Round(score))
	if authority < minAuthority {
		authority = minAuthority
	}
	if authority > maxAuthority {
		authority = maxAuthority
	}
	return authority
}

// ClassifyCompetitor labels a domain by authority. Above the threshold it
// is an aspirational benchmark rather than a directly displaceable rival.
func ClassifyCompetitor(authority int) string {
	if authority > aspirationalThreshold {
		return TypeAspirational
	}
	return TypeDirect
}
