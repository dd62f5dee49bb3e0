package topics

import (
	"encoding/json"
	"strings"
)

const maxSummaryLength = 2000

type topicsResponse struct {
	Topics []string `json:"topics"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

type scoreResponse struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// parseTopicsResponse filters the model's topic list to the known
// vocabulary and clamps the count. Order of first appearance is kept.
func parseTopicsResponse(raw string, known []string, maxTopics int) ([]string, *ExtractionError) {
	var parsed topicsResponse
	if err := unmarshalResponse(raw, &parsed); err != nil {
		return nil, err
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, topic := range known {
		knownSet[topic] = struct{}{}
	}

	seen := make(map[string]struct{})
	var valid []string
	for _, topic := range parsed.Topics {
		topic = strings.TrimSpace(topic)
		if _, ok := knownSet[topic]; !ok {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		valid = append(valid, topic)
		if len(valid) == maxTopics {
			break
		}
	}
	return valid, nil
}

func parseSummaryResponse(raw string) (string, *ExtractionError) {
	var parsed summaryResponse
	if err := unmarshalResponse(raw, &parsed); err != nil {
		return "", err
	}
	summary := strings.TrimSpace(parsed.Summary)
	if len(summary) > maxSummaryLength {
		summary = summary[:maxSummaryLength]
	}
	return summary, nil
}

// parseScoreResponse clamps the score into the 0-10 scale instead of
// rejecting out-of-range values; models occasionally return 11 or -1.
func parseScoreResponse(raw string) (float64, *ExtractionError) {
	var parsed scoreResponse
	if err := unmarshalResponse(raw, &parsed); err != nil {
		return 0, err
	}
	score := parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score, nil
}

func unmarshalResponse(raw string, target any) *ExtractionError {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return &ExtractionError{
			Message: "model returned an empty response",
			Cause:   ErrCauseEmptyResponse,
		}
	}
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return &ExtractionError{
			Message: "model response is not valid json: " + err.Error(),
			Cause:   ErrCauseBadResponseJSON,
		}
	}
	return nil
}

// stripCodeFence unwraps ```json fenced responses. Models wrap JSON in
// Markdown fences even when told not to.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
