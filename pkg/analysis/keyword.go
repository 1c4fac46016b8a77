package analysis

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultKeywordLimit bounds external API spend per analysis.
const DefaultKeywordLimit = 10

// SelectKeywords picks the subset of keywords worth SERP budget: entries
// with positive volume, ordered by volume descending, capped at limit.
// Ties keep caller order (stable sort) so a fixed input always yields the
// same selection. Keyword text is NFC-folded so visually identical
// keywords compare equal.
func SelectKeywords(queries []KeywordQuery, limit int) []KeywordQuery {
	eligible := make([]KeywordQuery, 0, len(queries))
	for _, q := range queries {
		if q.Volume <= 0 {
			continue
		}
		q.Keyword = norm.NFC.String(strings.TrimSpace(q.Keyword))
		if q.Keyword == "" {
			continue
		}
		eligible = append(eligible, q)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Volume > eligible[j].Volume
	})

	if limit > 0 && len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible
}
