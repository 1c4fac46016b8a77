package analysis

// defaultKeywordVolume stands in when a keyword's search volume is unknown.
const defaultKeywordVolume = 100

// CompetitorProfile accumulates per-domain evidence for the duration of one
// analysis request. SharedKeywords, Positions and Titles are parallel
// sequences, one entry per qualifying SERP hit.
type CompetitorProfile struct {
	Domain         string
	SharedKeywords []string
	Positions      []int
	Titles         []string
	TotalScore     float64
}

// DistinctKeywords returns the deduplicated shared keywords in first-seen
// order.
func (p *CompetitorProfile) DistinctKeywords() []string {
	seen := make(map[string]struct{}, len(p.SharedKeywords))
	distinct := make([]string, 0, len(p.SharedKeywords))
	for _, kw := range p.SharedKeywords {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		distinct = append(distinct, kw)
	}
	return distinct
}

// AveragePosition returns the arithmetic mean of the observed positions, or
// 0 when none were recorded.
func (p *CompetitorProfile) AveragePosition() float64 {
	if len(p.Positions) == 0 {
		return 0
	}
	sum := 0
	for _, pos := range p.Positions {
		sum += pos
	}
	return float64(sum) / float64(len(p.Positions))
}

// ProfileSet is an insertion-ordered map from normalized domain to profile.
// Iteration follows first-seen order, keeping the base order deterministic
// for the stable sort downstream.
type ProfileSet struct {
	profiles map[string]*CompetitorProfile
	order    []string
}

// NewProfileSet creates an empty set, private to one analysis request.
func NewProfileSet() *ProfileSet {
	return &ProfileSet{profiles: make(map[string]*CompetitorProfile)}
}

// Record appends one qualifying SERP hit for keyword to the domain's
// profile, creating the profile on first sight. The score contribution is
// (11 − position) × (volume / 100); volume defaults to 100 when unknown.
func (s *ProfileSet) Record(domain, keyword, title string, position, volume int) {
	p, ok := s.profiles[domain]
	if !ok {
		p = &CompetitorProfile{Domain: domain}
		s.profiles[domain] = p
		s.order = append(s.order, domain)
	}

	p.SharedKeywords = append(p.SharedKeywords, keyword)
	p.Positions = append(p.Positions, position)
	p.Titles = append(p.Titles, title)

	if volume <= 0 {
		volume = defaultKeywordVolume
	}
	p.TotalScore += float64(11-position) * float64(volume) / 100.0
}

// Get returns the profile for a normalized domain.
func (s *ProfileSet) Get(domain string) (*CompetitorProfile, bool) {
	p, ok := s.profiles[domain]
	return p, ok
}

// Len returns the number of tracked domains.
func (s *ProfileSet) Len() int { return len(s.order) }

// All returns the profiles in first-seen order.
func (s *ProfileSet) All() []*CompetitorProfile {
	out := make([]*CompetitorProfile, 0, len(s.order))
	for _, domain := range s.order {
		out = append(out, s.profiles[domain])
	}
	return out
}
