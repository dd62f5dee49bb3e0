package privacy

import "strings"

// SanitizeText removes privacy lines from line-oriented plain text.
//
// A line is dropped when it contains any URL pattern anywhere, or when the
// entire trimmed line matches a text pattern anchored at both ends. The
// anchoring is deliberate: plain text offers no structural signal to tell
// a tracked content line from a privacy line, so only the narrowest,
// lowest-false-positive signals act here. A sentence that merely mentions
// "unsubscribe" survives; the standalone link label "Unsubscribe" on its
// own line does not.
//
// There is no unwrap concept in text mode: a line is kept whole or
// dropped whole.
func SanitizeText(content string, patterns PatternSet) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if matchAny(patterns.urlPatterns, line) {
			continue
		}
		if matchAny(patterns.textLinePatterns, line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}
