/*
Responsibilities
- Match a message sender to a configured source
- Sanitize HTML and text bodies before anything else reads them
- Derive plain text from sanitized HTML when the message carries none

Sanitization runs BEFORE HTML-to-text conversion, so the derived text
version is clean by construction and never needs a second pass.
*/
package mailparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/privacy"
	"github.com/wardpost/wardpost/internal/textconvert"
)

type Parser struct {
	sanitizer    privacy.ContentSanitizer
	converter    textconvert.TextConverter
	metadataSink metadata.MetadataSink
}

func NewParser(
	sanitizer privacy.ContentSanitizer,
	converter textconvert.TextConverter,
	metadataSink metadata.MetadataSink,
) *Parser {
	return &Parser{
		sanitizer:    sanitizer,
		converter:    converter,
		metadataSink: metadataSink,
	}
}

// ParseNewsletter turns a fetched message into a sanitized Newsletter.
// It never fails: an unmapped sender yields a Newsletter with an empty
// source ID, and a text-conversion failure yields empty plain text. Both
// conditions are recorded through the metadata sink.
func (p *Parser) ParseNewsletter(
	msg Message,
	mappings []SourceMapping,
	patterns privacy.PatternSet,
	phrases []string,
) Newsletter {
	sourceID, mapped := LookupSource(msg.from, mappings)
	if !mapped {
		p.metadataSink.RecordError(
			time.Now(),
			"mailparse",
			"Parser.ParseNewsletter",
			metadata.CauseSourceUnmapped,
			"no source mapping for sender",
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrFromEmail, msg.from),
				metadata.NewAttr(metadata.AttrMessageUID, msg.uid),
			},
		)
	}

	htmlContent := msg.htmlBody
	plainText := msg.textBody

	if htmlContent != "" {
		htmlContent = p.sanitizer.Sanitize(htmlContent, privacy.ContentTypeHTML, patterns, phrases)
	}
	if plainText != "" {
		plainText = p.sanitizer.Sanitize(plainText, privacy.ContentTypeText, patterns, phrases)
	}

	// HTML-only messages get their text derived from the sanitized HTML.
	if htmlContent != "" && plainText == "" {
		result, err := p.converter.Convert(htmlContent)
		if err == nil {
			plainText = result.GetTextContent()
		}
		// conversion failures are recorded by the converter itself
	}

	subject := msg.subject
	if subject == "" {
		subject = "(No subject)"
	}

	return NewNewsletter(
		msg.uid,
		msg.date,
		subject,
		msg.from,
		msg.to,
		sourceID,
		htmlContent,
		plainText,
	)
}

var displayNamePattern = regexp.MustCompile(`^(.+?)\s*<`)

// ExtractSenderName pulls the display name out of a From header.
// "Alderman John Smith <ward01@example.com>" yields "Alderman John Smith".
// A bare address has no display name.
func ExtractSenderName(fromAddress string) (string, bool) {
	match := displayNamePattern.FindStringSubmatch(fromAddress)
	if match == nil {
		return "", false
	}

	name := strings.TrimSpace(match[1])
	name = strings.Trim(name, `"'`)
	if name == "" {
		return "", false
	}
	return name, true
}
