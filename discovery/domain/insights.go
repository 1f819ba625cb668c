package domain

type InsightSeverity string

const (
	InsightGreen  InsightSeverity = "green"
	InsightYellow InsightSeverity = "yellow"
	InsightRed    InsightSeverity = "red"
	InsightNone   InsightSeverity = "none"
)

func (s InsightSeverity) Valid() bool {
	switch s {
	case InsightGreen, InsightYellow, InsightRed, InsightNone:
		return true
	default:
		return false
	}
}

type Insight struct {
	Severity    InsightSeverity `json:"severity"`
	Summary     string          `json:"summary"`
	Suggestions []string        `json:"suggestions"`
}

// InsightsMap maps a graph node id to its insight.
type InsightsMap map[string]Insight
