/*
Responsibilities
- Dispatch content to the HTML or text sanitizer by content type
- Apply phrase redaction last, on every path
- Guarantee fail-safe behavior: sanitization must never lose a newsletter

The engine is a pure transformation over its inputs: no I/O, no retained
state between calls, safe for unlimited concurrent use on independent
inputs. The injected metadata sink only observes fallbacks.
*/
package privacy

import (
	"errors"
	"time"

	"github.com/wardpost/wardpost/internal/metadata"
)

type Engine struct {
	metadataSink metadata.MetadataSink
}

func NewEngine(metadataSink metadata.MetadataSink) Engine {
	return Engine{
		metadataSink: metadataSink,
	}
}

// Sanitize strips privacy artifacts from content and then redacts the
// caller-supplied literal phrases. Empty input returns empty immediately;
// an unknown content type passes through untouched.
//
// Sanitize never fails. If the HTML path hits an unexpected internal
// error, the original content is returned unchanged and the condition is
// recorded through the metadata sink: under-sanitizing is preferred to
// crashing the unattended ingestion path.
func (e *Engine) Sanitize(
	content string,
	contentType ContentType,
	patterns PatternSet,
	phrases []string,
) string {
	if content == "" {
		return ""
	}

	result := content
	switch contentType {
	case ContentTypeHTML:
		sanitized, err := SanitizeHTML(content, patterns)
		if err != nil {
			cause := metadata.CauseUnknown
			var sanitizationError *SanitizationError
			if errors.As(err, &sanitizationError) {
				cause = mapSanitizationErrorToMetadataCause(sanitizationError)
			}
			e.metadataSink.RecordError(
				time.Now(),
				"privacy",
				"Engine.Sanitize",
				cause,
				err.Error(),
				[]metadata.Attribute{
					metadata.NewAttr(metadata.AttrContentType, string(contentType)),
				},
			)
			// fall through with the original content; redaction still runs
		} else {
			result = sanitized
		}
	case ContentTypeText:
		result = SanitizeText(content, patterns)
	}

	return RedactPhrases(result, phrases)
}
