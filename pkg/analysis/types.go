// Package analysis turns raw SERP observations into a ranked, explainable
// competitor report. The pipeline is a single request-scoped computation:
// keyword selection, per-keyword SERP ingestion, domain filtering, weighted
// score accumulation, authority estimation and final ranking.
package analysis

// Analysis method values reported to the caller.
const (
	MethodSerperAPI     = "serper_api"
	MethodNotConfigured = "serper_not_configured"
	MethodFailed        = "serper_failed"
)

// Competitor type labels.
const (
	TypeDirect       = "direct"
	TypeAspirational = "aspirational"
)

// KeywordQuery is one caller-supplied keyword with its monthly search
// volume. A zero or absent volume makes the keyword ineligible for
// selection.
type KeywordQuery struct {
	Keyword string `json:"keyword" validate:"required"`
	Volume  int    `json:"volume,omitempty"`
}

// Request is one competitor analysis request from the audit pipeline.
type Request struct {
	Domain   string         `json:"domain" validate:"required"`
	Keywords []KeywordQuery `json:"keywords" validate:"dive"`
}

// ScoredCompetitor is one entry in the final report.
type ScoredCompetitor struct {
	Domain            string   `json:"domain"`
	OverlapCount      int      `json:"overlapCount"`
	OverlapPercentage int      `json:"overlapPercentage"`
	Authority         int      `json:"authority"`
	CompetitorType    string   `json:"competitorType"`
	SharedKeywords    []string `json:"sharedKeywords"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	AspirationalNote  string   `json:"aspirationalNote,omitempty"`
}

// MarketAnalysis summarises the competitive landscape around the ranked
// list. The advisory blocks are fixed editorial content.
type MarketAnalysis struct {
	MarketType              string   `json:"marketType"`
	CompetitionLevel        string   `json:"competitionLevel"`
	DirectCompetitors       int      `json:"directCompetitors"`
	AspirationalCompetitors int      `json:"aspirationalCompetitors"`
	Opportunities           []string `json:"opportunities"`
	Threats                 []string `json:"threats"`
	Recommendations         []string `json:"recommendations"`
}

// Report is the full analysis response.
type Report struct {
	Competitors           []ScoredCompetitor `json:"competitors"`
	TotalKeywordsAnalyzed int                `json:"totalKeywordsAnalyzed"`
	AnalysisMethod        string             `json:"analysisMethod"`
	CreditsUsed           int                `json:"creditsUsed"`

	// KeywordsFailed counts the selected keywords whose lookups errored or
	// were cut off by the deadline, so callers can tell a complete report
	// from a partial one.
	KeywordsFailed int `json:"keywordsFailed"`

	Analysis *MarketAnalysis `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`

	// Lookups records the detailed per-keyword fetch outcomes for the run,
	// including errors. Kept off the wire; KeywordsFailed is the summary.
	Lookups []KeywordLookup `json:"-"`
}

// KeywordLookup is the outcome of one per-keyword SERP fetch.
type KeywordLookup struct {
	Keyword string
	Hits    int
	Err     error
}

// Failed reports whether the lookup contributed zero hits due to an error.
func (l KeywordLookup) Failed() bool { return l.Err != nil }

// FailedReport builds the well-formed body returned when the whole batch
// fails unexpectedly.
func FailedReport(msg string) *Report {
	return &Report{
		Competitors:    []ScoredCompetitor{},
		AnalysisMethod: MethodFailed,
		Error:          msg,
	}
}
