/*
Responsibilities
- Walk ward newsletter archive pages and collect issue references
- Fetch individual archived newsletters
- Respect per-host politeness delays between requests

The scraper returns raw content only. Sanitization and text conversion
happen downstream, in the same order the mail path uses.
*/
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/pkg/failure"
	"github.com/wardpost/wardpost/pkg/limiter"
	"github.com/wardpost/wardpost/pkg/retry"
)

type Scraper struct {
	fetcher      Fetcher
	rateLimiter  limiter.RateLimiter
	metadataSink metadata.MetadataSink
	userAgent    string
	retryParam   retry.RetryParam
}

func NewScraper(
	fetcher Fetcher,
	rateLimiter limiter.RateLimiter,
	metadataSink metadata.MetadataSink,
	userAgent string,
	retryParam retry.RetryParam,
) *Scraper {
	return &Scraper{
		fetcher:      fetcher,
		rateLimiter:  rateLimiter,
		metadataSink: metadataSink,
		userAgent:    userAgent,
		retryParam:   retryParam,
	}
}

// ExtractNewsletterLinks fetches one archive page and extracts its
// newsletter references using the strategy matching the URL.
func (s *Scraper) ExtractNewsletterLinks(
	ctx context.Context,
	archiveURL string,
) ([]ArchiveEntry, failure.ClassifiedError) {
	parsedURL, err := url.Parse(archiveURL)
	if err != nil {
		return nil, &FetchError{
			Message:   fmt.Sprintf("invalid archive url: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	result, fetchErr := s.politeFetch(ctx, *parsedURL)
	if fetchErr != nil {
		return nil, fetchErr
	}

	strategy := StrategyForURL(archiveURL)
	return strategy.ExtractNewsletters(string(result.Body()), archiveURL), nil
}

// FetchNewsletter fetches one archived issue and derives its subject
// from the page itself: first non-empty among title, h1, h2, falling
// back to the archive entry title.
func (s *Scraper) FetchNewsletter(
	ctx context.Context,
	entry ArchiveEntry,
) (ScrapedNewsletter, failure.ClassifiedError) {
	parsedURL, err := url.Parse(entry.url)
	if err != nil {
		return ScrapedNewsletter{}, &FetchError{
			Message:   fmt.Sprintf("invalid newsletter url: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	result, fetchErr := s.politeFetch(ctx, *parsedURL)
	if fetchErr != nil {
		return ScrapedNewsletter{}, fetchErr
	}

	htmlContent := string(result.Body())

	subject := extractSubject(htmlContent)
	if subject == "" {
		subject = entry.title
	}
	if subject == "" {
		subject = "Untitled Newsletter"
	}

	return NewScrapedNewsletter(
		entry.url,
		htmlContent,
		subject,
		entry.title,
		entry.dateStr,
	), nil
}

// politeFetch waits out the host's politeness delay, performs the fetch,
// and keeps the rate limiter's backoff state in sync with the outcome.
func (s *Scraper) politeFetch(
	ctx context.Context,
	fetchURL url.URL,
) (FetchResult, failure.ClassifiedError) {
	host := fetchURL.Host

	if err := s.waitForHost(ctx, host); err != nil {
		return FetchResult{}, err
	}

	s.rateLimiter.MarkLastFetchAsNow(host)
	result, fetchErr := s.fetcher.Fetch(ctx, NewFetchParam(fetchURL, s.userAgent), s.retryParam)
	if fetchErr != nil {
		if fetchErr.Severity() == failure.SeverityRecoverable {
			s.rateLimiter.Backoff(host)
		}
		return FetchResult{}, fetchErr
	}

	s.rateLimiter.ResetBackoff(host)
	return result, nil
}

func (s *Scraper) waitForHost(ctx context.Context, host string) failure.ClassifiedError {
	delay := s.rateLimiter.ResolveDelay(host)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return &FetchError{
			Message:   ctx.Err().Error(),
			Retryable: false,
			Cause:     ErrCauseTimeout,
		}
	case <-timer.C:
		return nil
	}
}

// extractSubject returns the first non-empty of title, h1, h2.
func extractSubject(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	for _, selector := range []string{"title", "h1", "h2"} {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// ParseArchiveDate turns the archive's MM/DD/YYYY date text into a
// time.Time. Missing or malformed dates are reported, not guessed.
func ParseArchiveDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, errors.New("empty date")
	}
	return time.Parse("1/2/2006", dateStr)
}
