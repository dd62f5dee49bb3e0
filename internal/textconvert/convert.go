package textconvert

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/pkg/failure"
)

/*
Design Principles
- Semantic fidelity over visual fidelity
- No inferred structure
- Deterministic output for identical input

Conversion Rules
- Headings map directly (h1-h6 to # - ######)
- Tables converted structurally (GFM)
- Links and images preserved as-is (no resolution)
- DOM order preserved
- Runs of three or more blank lines collapse to one blank line

The input is expected to be already sanitized HTML. Conversion never
re-applies privacy rules; ordering is the pipeline's responsibility.
*/

// TextConverter turns sanitized newsletter HTML into searchable plain text.
type TextConverter interface {
	Convert(sanitizedHTML string) (ConversionResult, failure.ClassifiedError)
}

// Compile-time interface check
var _ TextConverter = (*MarkdownTextRule)(nil)

type MarkdownTextRule struct {
	metadataSink metadata.MetadataSink
}

func NewRule(metadataSink metadata.MetadataSink) *MarkdownTextRule {
	return &MarkdownTextRule{
		metadataSink: metadataSink,
	}
}

func (m *MarkdownTextRule) Convert(
	sanitizedHTML string,
) (ConversionResult, failure.ClassifiedError) {
	conversionResult, err := convert(sanitizedHTML)
	if err != nil {
		var conversionError *ConversionError
		errors.As(err, &conversionError)

		m.metadataSink.RecordError(
			time.Now(),
			"textconvert",
			"MarkdownTextRule.Convert",
			mapConversionErrorToMetadataCause(*conversionError),
			err.Error(),
			[]metadata.Attribute{},
		)
		return ConversionResult{}, conversionError
	}
	return conversionResult, nil
}

var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// convert is a stateless pure function that transforms sanitized HTML into
// a ConversionResult containing plain text in Markdown form.
func convert(sanitizedHTML string) (ConversionResult, *ConversionError) {
	if strings.TrimSpace(sanitizedHTML) == "" {
		return ConversionResult{}, &ConversionError{
			Message:   "cannot convert empty document",
			Retryable: false,
			Cause:     ErrCauseEmptyInput,
		}
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	text, err := conv.ConvertString(sanitizedHTML)
	if err != nil {
		return ConversionResult{}, &ConversionError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseConversionFailure,
		}
	}

	// Newsletter table layouts leave large vertical gaps behind.
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	linkRefs := extractLinkRefs(sanitizedHTML)

	return NewConversionResult(text, linkRefs), nil
}

// extractLinkRefs walks the HTML and extracts all link references:
// <a> tags with href attributes and <img> tags with src attributes,
// in document order.
func extractLinkRefs(sanitizedHTML string) []LinkRef {
	var linkRefs []LinkRef

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitizedHTML))
	if err != nil {
		return nil
	}

	doc.Find("a[href], img[src]").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "a":
			if href, exists := s.Attr("href"); exists {
				linkRefs = append(linkRefs, toLinkRef("a", href))
			}
		case "img":
			if src, exists := s.Attr("src"); exists {
				linkRefs = append(linkRefs, toLinkRef("img", src))
			}
		}
	})

	return linkRefs
}

// toLinkRef classifies a raw URL based on tag type and URL shape.
func toLinkRef(tagName, raw string) LinkRef {
	var kind LinkKind
	switch strings.ToLower(tagName) {
	case "img":
		kind = KindImage
	case "a":
		if strings.HasPrefix(raw, "#") {
			kind = KindAnchor
		} else {
			kind = KindNavigation
		}
	default:
		kind = KindNavigation
	}

	return NewLinkRef(raw, kind)
}
