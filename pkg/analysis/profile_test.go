package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSet_RecordAccumulates(t *testing.T) {
	set := NewProfileSet()

	set.Record("competitor.com", "seo tools", "Competitor Tools", 1, 1000)
	set.Record("competitor.com", "marketing agency", "Competitor Agency", 3, 500)

	p, ok := set.Get("competitor.com")
	require.True(t, ok)
	assert.Equal(t, []string{"seo tools", "marketing agency"}, p.SharedKeywords)
	assert.Equal(t, []int{1, 3}, p.Positions)
	assert.Equal(t, []string{"Competitor Tools", "Competitor Agency"}, p.Titles)
	// (11-1)*1000/100 + (11-3)*500/100 = 100 + 40
	assert.InDelta(t, 140.0, p.TotalScore, 1e-9)
}

func TestProfileSet_DefaultVolume(t *testing.T) {
	set := NewProfileSet()

	set.Record("competitor.com", "kw", "", 1, 0)

	p, _ := set.Get("competitor.com")
	// Unknown volume defaults to 100: (11-1)*100/100 = 10.
	assert.InDelta(t, 10.0, p.TotalScore, 1e-9)
}

func TestProfileSet_InsertionOrder(t *testing.T) {
	set := NewProfileSet()

	set.Record("c.com", "kw", "", 1, 100)
	set.Record("a.com", "kw", "", 2, 100)
	set.Record("b.com", "kw", "", 3, 100)
	set.Record("a.com", "kw2", "", 4, 100)

	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c.com", all[0].Domain)
	assert.Equal(t, "a.com", all[1].Domain)
	assert.Equal(t, "b.com", all[2].Domain)
}

func TestCompetitorProfile_DistinctKeywords(t *testing.T) {
	p := &CompetitorProfile{
		SharedKeywords: []string{"a", "b", "a", "c", "b"},
	}

	assert.Equal(t, []string{"a", "b", "c"}, p.DistinctKeywords())
}

func TestCompetitorProfile_AveragePosition(t *testing.T) {
	p := &CompetitorProfile{Positions: []int{1, 2, 6}}
	assert.InDelta(t, 3.0, p.AveragePosition(), 1e-9)

	empty := &CompetitorProfile{}
	assert.Zero(t, empty.AveragePosition())
}
