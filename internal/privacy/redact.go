package privacy

import (
	"regexp"
	"strings"
)

// RedactionMarker replaces every occurrence of a redacted phrase.
const RedactionMarker = "[REDACTED]"

// RedactPhrases performs a literal, case-insensitive, global replacement
// of each phrase with the redaction marker. Phrases are treated as
// literal text: regex metacharacters are escaped before compilation, so a
// phrase like "j.doe@example.com" cannot match "jXdoe@example.com".
//
// Occurrences are replaced independently wherever they appear, including
// inside attribute values: an email address embedded in a mailto href and
// again in the visible anchor text yields two redactions.
func RedactPhrases(content string, phrases []string) string {
	result := content
	for _, phrase := range phrases {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(phrase))
		result = re.ReplaceAllLiteralString(result, RedactionMarker)
	}
	return result
}

// SplitPhraseList splits a comma-separated phrase list (the format of the
// WARDPOST_STRIP_PHRASES environment variable) into the pre-split slice
// the engine contract requires. Empty entries are dropped.
func SplitPhraseList(raw string) []string {
	var phrases []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			phrases = append(phrases, trimmed)
		}
	}
	return phrases
}
