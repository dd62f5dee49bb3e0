package scrape

import (
	"context"

	"github.com/wardpost/wardpost/pkg/failure"
	"github.com/wardpost/wardpost/pkg/retry"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}

// ArchiveStrategy extracts newsletter references from one archive page
// format. Implementations are stateless and safe for concurrent use.
type ArchiveStrategy interface {
	ExtractNewsletters(html string, baseURL string) []ArchiveEntry
}
