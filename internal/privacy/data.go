package privacy

import (
	"regexp"

	"github.com/andybalholm/cascadia"
)

// ContentType discriminates the two sanitization modalities.
// Any other value passes content through untouched.
type ContentType string

const (
	ContentTypeHTML ContentType = "html"
	ContentTypeText ContentType = "text"
)

// disposition is the per-link decision in HTML mode.
// remove deletes the anchor and all its descendants; unwrap deletes only
// the anchor wrapper, promoting its children into the parent.
type disposition int

const (
	dispositionKeep disposition = iota
	dispositionUnwrap
	dispositionRemove
)

// PatternSet is an immutable bundle of compiled privacy patterns.
// All regexes are case-insensitive. Construction is the only place a
// bad pattern can surface; a built PatternSet never fails at call time.
//
// A PatternSet is safe to share across unlimited concurrent sanitization
// calls provided it is not mutated after construction.
type PatternSet struct {
	// urlPatterns match anywhere inside an href or text line (search semantics)
	urlPatterns []*regexp.Regexp
	// textPatterns match anywhere inside a link's rendered text (search semantics)
	textPatterns []*regexp.Regexp
	// textLinePatterns are the same text patterns anchored at both ends,
	// used in text mode to catch standalone keyword lines only
	textLinePatterns []*regexp.Regexp
	// selectors remove whole containers before any link is evaluated
	selectors []cascadia.Selector
}

// URLPatternCount reports how many URL patterns compiled into the set.
func (p PatternSet) URLPatternCount() int {
	return len(p.urlPatterns)
}

// TextPatternCount reports how many text patterns compiled into the set.
func (p PatternSet) TextPatternCount() int {
	return len(p.textPatterns)
}

// SelectorCount reports how many CSS selectors compiled into the set.
func (p PatternSet) SelectorCount() int {
	return len(p.selectors)
}

// patternSetDTO mirrors the external pattern configuration document:
// a JSON object with exactly three list-valued keys.
type patternSetDTO struct {
	URLPatterns  []string `json:"url_patterns"`
	TextPatterns []string `json:"text_patterns"`
	Selectors    []string `json:"selectors"`
}
