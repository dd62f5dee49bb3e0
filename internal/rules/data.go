package rules

// Representation

// Rule is a user-defined notification rule. Every configured condition
// kind must hold for the rule to match; an unset kind constrains
// nothing. Construction follows the immutable With* chain; each With*
// returns a modified copy.
type Rule struct {
	id              string
	userID          string
	name            string
	topics          []string
	keywords        []string
	minRelevance    float64
	hasMinRelevance bool
	sourceIDs       []string
	wardNumbers     []int
	active          bool
}

func NewRule(id string, userID string, name string) Rule {
	return Rule{
		id:     id,
		userID: userID,
		name:   name,
		active: true,
	}
}

func (r Rule) WithTopics(topics ...string) Rule {
	r.topics = append([]string(nil), topics...)
	return r
}

func (r Rule) WithKeywords(keywords ...string) Rule {
	r.keywords = append([]string(nil), keywords...)
	return r
}

func (r Rule) WithMinRelevance(minRelevance float64) Rule {
	r.minRelevance = minRelevance
	r.hasMinRelevance = true
	return r
}

func (r Rule) WithSourceIDs(sourceIDs ...string) Rule {
	r.sourceIDs = append([]string(nil), sourceIDs...)
	return r
}

func (r Rule) WithWardNumbers(wardNumbers ...int) Rule {
	r.wardNumbers = append([]int(nil), wardNumbers...)
	return r
}

func (r Rule) WithActive(active bool) Rule {
	r.active = active
	return r
}

func (r *Rule) GetID() string {
	return r.id
}

func (r *Rule) GetUserID() string {
	return r.userID
}

func (r *Rule) GetName() string {
	return r.name
}

func (r *Rule) IsActive() bool {
	return r.active
}

// NewsletterFacts is the slice of a stored newsletter that rule
// evaluation reads. Ward number and relevance score are optional;
// their Has* flags distinguish "absent" from zero.
type NewsletterFacts struct {
	topics       []string
	plainText    string
	sourceID     string
	wardNumber   int
	hasWard      bool
	relevance    float64
	hasRelevance bool
}

func NewNewsletterFacts(topics []string, plainText string, sourceID string) NewsletterFacts {
	return NewsletterFacts{
		topics:    append([]string(nil), topics...),
		plainText: plainText,
		sourceID:  sourceID,
	}
}

func (f NewsletterFacts) WithWardNumber(wardNumber int) NewsletterFacts {
	f.wardNumber = wardNumber
	f.hasWard = true
	return f
}

func (f NewsletterFacts) WithRelevance(relevance float64) NewsletterFacts {
	f.relevance = relevance
	f.hasRelevance = true
	return f
}

// RuleMatch identifies one (user, rule) pair whose rule matched.
type RuleMatch struct {
	userID   string
	ruleID   string
	ruleName string
}

func (m *RuleMatch) GetUserID() string {
	return m.userID
}

func (m *RuleMatch) GetRuleID() string {
	return m.ruleID
}

func (m *RuleMatch) GetRuleName() string {
	return m.ruleName
}
