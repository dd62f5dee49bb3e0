package privacy

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/wardpost/wardpost/pkg/failure"
	"golang.org/x/net/html"
)

// mediaSelector identifies image-like descendants of an anchor. A matched
// link that wraps one of these gets unwrapped instead of removed, so a
// newsletter photo served through a tracking redirect survives.
var mediaSelector = cascadia.MustCompile("img, picture, svg")

// SanitizeHTML removes privacy and list-management artifacts from
// newsletter HTML. The parser is lenient: unclosed tags, stray text, and
// missing html/body wrappers are all tolerated, since real newsletter
// markup is frequently malformed.
//
// Processing order matters: container removal runs before link
// evaluation, so links inside a removed footer are never evaluated
// individually.
func SanitizeHTML(content string, patterns PatternSet) (string, failure.ClassifiedError) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", &SanitizationError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseUnparseableHTML,
		}
	}

	for _, sel := range patterns.selectors {
		doc.FindMatcher(sel).Remove()
	}

	// Dispositions are collected from an immutable read of the tree, then
	// applied in a second pass. Anchors cannot nest, so the decisions are
	// independent and application order does not affect the outcome.
	type linkDecision struct {
		node *html.Node
		disp disposition
	}
	var decisions []linkDecision

	doc.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		disp := evaluateLink(anchor, href, patterns)
		if disp == dispositionKeep {
			return
		}
		if len(anchor.Nodes) > 0 {
			decisions = append(decisions, linkDecision{node: anchor.Nodes[0], disp: disp})
		}
	})

	for _, d := range decisions {
		switch d.disp {
		case dispositionUnwrap:
			unwrapNode(d.node)
		case dispositionRemove:
			detachNode(d.node)
		}
	}

	return renderDocument(doc)
}

// evaluateLink decides the disposition for a single anchor.
//
// URL patterns are checked before text patterns; the text check only runs
// when no URL pattern fired. This ordering is a short-circuit, not a
// semantic requirement: matches are unioned.
func evaluateLink(anchor *goquery.Selection, href string, patterns PatternSet) disposition {
	matched := matchAny(patterns.urlPatterns, href)
	if !matched {
		matched = matchAny(patterns.textPatterns, renderedText(anchor))
	}
	if !matched {
		return dispositionKeep
	}

	// A tracked redirect wrapping an image still carries content value:
	// strip the wrapper but keep the image and any caption text. A purely
	// textual privacy link carries none, so it goes entirely.
	if anchor.FindMatcher(mediaSelector).Length() > 0 {
		return dispositionUnwrap
	}
	return dispositionRemove
}

// renderedText returns the anchor's visible text with whitespace collapsed.
func renderedText(anchor *goquery.Selection) string {
	return strings.Join(strings.Fields(anchor.Text()), " ")
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// unwrapNode removes n from the tree while promoting its children into
// the parent, preserving document order.
func unwrapNode(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		parent.InsertBefore(child, n)
		child = next
	}
	parent.RemoveChild(n)
}

// detachNode removes n and its entire subtree from the tree.
func detachNode(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func renderDocument(doc *goquery.Document) (string, failure.ClassifiedError) {
	var buf strings.Builder
	for _, node := range doc.Selection.Nodes {
		if err := html.Render(&buf, node); err != nil {
			return "", &SanitizationError{
				Message:   err.Error(),
				Retryable: false,
				Cause:     ErrCauseRenderFailure,
			}
		}
	}
	return buf.String(), nil
}
