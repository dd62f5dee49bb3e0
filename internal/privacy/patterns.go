package privacy

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/andybalholm/cascadia"
	"github.com/wardpost/wardpost/pkg/failure"
)

// NewPatternSet compiles raw pattern strings into an immutable PatternSet.
// All three lists may be empty. URL and text patterns use Go regexp syntax
// and are compiled case-insensitively; selectors use CSS selector syntax.
//
// Compilation failure is a configuration error and aborts construction:
// a pattern set is either fully valid or unusable.
func NewPatternSet(
	urlPatterns []string,
	textPatterns []string,
	selectors []string,
) (PatternSet, failure.ClassifiedError) {
	set := PatternSet{}

	for _, raw := range urlPatterns {
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			return PatternSet{}, &PatternError{
				Message: err.Error(),
				Pattern: raw,
				Cause:   ErrCauseBadURLPattern,
			}
		}
		set.urlPatterns = append(set.urlPatterns, re)
	}

	for _, raw := range textPatterns {
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			return PatternSet{}, &PatternError{
				Message: err.Error(),
				Pattern: raw,
				Cause:   ErrCauseBadTextPattern,
			}
		}
		set.textPatterns = append(set.textPatterns, re)

		// The anchored form must describe a whole trimmed line. This is what
		// keeps "I will not unsubscribe from your great newsletter." alive in
		// text mode while the standalone line "Unsubscribe" is dropped.
		anchored, err := regexp.Compile(`(?i)^\s*(?:` + raw + `)\s*$`)
		if err != nil {
			return PatternSet{}, &PatternError{
				Message: err.Error(),
				Pattern: raw,
				Cause:   ErrCauseBadTextPattern,
			}
		}
		set.textLinePatterns = append(set.textLinePatterns, anchored)
	}

	for _, raw := range selectors {
		sel, err := cascadia.Compile(raw)
		if err != nil {
			return PatternSet{}, &PatternError{
				Message: err.Error(),
				Pattern: raw,
				Cause:   ErrCauseBadSelector,
			}
		}
		set.selectors = append(set.selectors, sel)
	}

	return set, nil
}

// ParsePatternSet builds a PatternSet from the external pattern
// configuration document: a JSON object with exactly the keys
// url_patterns, text_patterns, and selectors.
func ParsePatternSet(document []byte) (PatternSet, failure.ClassifiedError) {
	dto := patternSetDTO{}
	if err := json.Unmarshal(document, &dto); err != nil {
		return PatternSet{}, &PatternError{
			Message: err.Error(),
			Pattern: "",
			Cause:   ErrCauseBadPatternJSON,
		}
	}
	return NewPatternSet(dto.URLPatterns, dto.TextPatterns, dto.Selectors)
}

// LoadPatternFile reads a pattern configuration document from disk.
// The engine itself never reads files; this helper exists for the
// application's composition code (CLI, pipeline setup).
func LoadPatternFile(path string) (PatternSet, failure.ClassifiedError) {
	document, err := os.ReadFile(path)
	if err != nil {
		return PatternSet{}, &PatternError{
			Message: fmt.Sprintf("%v", err),
			Pattern: path,
			Cause:   ErrCauseBadPatternFile,
		}
	}
	return ParsePatternSet(document)
}

// DefaultPatternSet returns the embedded Mailchimp / Constant Contact /
// SparkPost pattern bundle. The embedded document is validated by tests,
// so compilation cannot fail at runtime.
func DefaultPatternSet() PatternSet {
	set, err := ParsePatternSet(defaultPatternsJSON)
	if err != nil {
		// Unreachable for the embedded document; an empty set sanitizes nothing
		// rather than failing the caller.
		return PatternSet{}
	}
	return set
}
