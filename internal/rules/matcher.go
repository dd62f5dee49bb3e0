package rules

import "strings"

/*
Match evaluates every active rule against the newsletter facts and
returns the matches in rule order.

Matching semantics:
  - Condition kinds are AND-ed: every configured kind must hold.
  - Within a kind, values are OR-ed: one matching topic, keyword,
    source ID, or ward number satisfies that kind.
  - A rule with no conditions matches everything. That is deliberate;
    it is how a user subscribes to a whole ward feed.
*/
func Match(facts NewsletterFacts, ruleSet []Rule) []RuleMatch {
	var matches []RuleMatch
	for _, rule := range ruleSet {
		if !rule.active {
			continue
		}
		if ruleMatches(rule, facts) {
			matches = append(matches, RuleMatch{
				userID:   rule.userID,
				ruleID:   rule.id,
				ruleName: rule.name,
			})
		}
	}
	return matches
}

func ruleMatches(rule Rule, facts NewsletterFacts) bool {
	if len(rule.topics) > 0 && !anyTopicMatches(rule.topics, facts.topics) {
		return false
	}
	if len(rule.keywords) > 0 && !anyKeywordInText(rule.keywords, facts.plainText) {
		return false
	}
	if rule.hasMinRelevance {
		if !facts.hasRelevance || facts.relevance < rule.minRelevance {
			return false
		}
	}
	if len(rule.sourceIDs) > 0 && !containsString(rule.sourceIDs, facts.sourceID) {
		return false
	}
	if len(rule.wardNumbers) > 0 {
		if !facts.hasWard || !containsInt(rule.wardNumbers, facts.wardNumber) {
			return false
		}
	}
	return true
}

func anyTopicMatches(ruleTopics []string, newsletterTopics []string) bool {
	topicSet := make(map[string]struct{}, len(newsletterTopics))
	for _, topic := range newsletterTopics {
		topicSet[topic] = struct{}{}
	}
	for _, topic := range ruleTopics {
		if _, ok := topicSet[topic]; ok {
			return true
		}
	}
	return false
}

// Keyword matching is a case-insensitive substring search over the
// sanitized plain text.
func anyKeywordInText(keywords []string, text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}
