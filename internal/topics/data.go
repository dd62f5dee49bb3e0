package topics

// Analysis is the LLM extraction result for one newsletter. Relevance
// uses a 0-10 scale; HasRelevance is false when scoring failed, which
// is distinct from a genuine zero.
type Analysis struct {
	topics       []string
	summary      string
	relevance    float64
	hasRelevance bool
}

func NewAnalysis(topics []string, summary string, relevance float64, hasRelevance bool) Analysis {
	copied := make([]string, len(topics))
	copy(copied, topics)
	return Analysis{
		topics:       copied,
		summary:      summary,
		relevance:    relevance,
		hasRelevance: hasRelevance,
	}
}

func (a *Analysis) GetTopics() []string {
	topics := make([]string, len(a.topics))
	copy(topics, a.topics)
	return topics
}

func (a *Analysis) GetSummary() string {
	return a.summary
}

func (a *Analysis) GetRelevance() float64 {
	return a.relevance
}

func (a *Analysis) HasRelevance() bool {
	return a.hasRelevance
}

// KnownTopics is the closed vocabulary the extractor may return.
// Rules match against these identifiers, so extraction output is
// filtered to this list; anything else an LLM invents is dropped.
var KnownTopics = []string{
	"zoning_reform",
	"missing_middle_housing",
	"adu_coach_house",
	"housing_development",
	"parking_minimums_elimination",
	"pedestrian_safety",
	"bike_infrastructure",
	"traffic_calming",
	"street_redesign",
	"transit_improvement",
	"transit_funding",
	"transit_service_expansion",
	"budget_transparency",
	"fiscal_sustainability",
	"tax_policy",
	"community_meeting",
	"development_approval",
	"ordinance_debate",
	"public_hearing",
}
