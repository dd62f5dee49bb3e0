package privacy

// ContentSanitizer is the boundary the newsletter-parsing pipeline calls,
// once per content type per ingested newsletter. HTML and plain text are
// sanitized independently, before any HTML-to-text conversion, so text
// derived from sanitized HTML is also clean.
type ContentSanitizer interface {
	Sanitize(content string, contentType ContentType, patterns PatternSet, phrases []string) string
}

// Compile-time interface check
var _ ContentSanitizer = (*Engine)(nil)
