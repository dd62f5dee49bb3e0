package topics

import "context"

/*
Extractor produces topics, a short summary and a relevance score for a
sanitized newsletter.

Responsibilities
- Run the extraction steps against whatever model backs the implementation
- Filter topics to the KnownTopics vocabulary
- Degrade per step: a failed step yields its zero value, never an abort

Analyze returns an error only when the context is done; extraction
failures are recorded through the metadata sink and reflected as
missing fields on the Analysis.
*/
type Extractor interface {
	Analyze(ctx context.Context, subject string, plainText string) (Analysis, error)
}

// Compile-time interface check
var _ Extractor = (*OpenAIExtractor)(nil)
