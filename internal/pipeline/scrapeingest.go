package pipeline

import (
	"context"
	"time"

	"github.com/wardpost/wardpost/internal/privacy"
	"github.com/wardpost/wardpost/internal/scrape"
	"github.com/wardpost/wardpost/internal/store"
	"github.com/wardpost/wardpost/pkg/failure"
)

// ExecuteScrapeIngest runs the archive ingest for one source: extract
// the archive's newsletter links, fetch each issue politely, sanitize,
// derive plain text, store, and match rules. Fetches have no email UID;
// dedup relies on the content fingerprint alone.
func (p *Pipeline) ExecuteScrapeIngest(
	ctx context.Context,
	archiveURL string,
	sourceID string,
) (IngestExecution, error) {
	ingestStartTime := time.Now()
	var stats IngestStats

	defer func() {
		p.ingestFinalizer.RecordFinalIngestStats(
			stats.processed,
			stats.skipped,
			stats.unmapped,
			stats.errors,
			time.Since(ingestStartTime),
		)
	}()

	patterns, patternErr := p.loadPatterns()
	if patternErr != nil {
		return IngestExecution{}, patternErr
	}

	entries, extractErr := p.scraper.ExtractNewsletterLinks(ctx, archiveURL)
	if extractErr != nil {
		// the scraper already recorded the failure
		return IngestExecution{}, extractErr
	}

	if maxPages := p.cfg.MaxPages(); len(entries) > maxPages {
		entries = entries[:maxPages]
	}

	phrases := p.cfg.StripPhrases()

	for _, entry := range entries {
		if ctx.Err() != nil {
			return IngestExecution{stats: stats}, ctx.Err()
		}
		fetchStartTime := time.Now()

		scraped, fetchErr := p.scraper.FetchNewsletter(ctx, entry)
		if fetchErr != nil {
			if fetchErr.Severity() == failure.SeverityFatal {
				return IngestExecution{stats: stats}, fetchErr
			}
			stats.errors++
			continue
		}

		// Sanitize, then derive text, in that order
		htmlContent := p.sanitizer.Sanitize(scraped.GetHTMLContent(), privacy.ContentTypeHTML, patterns, phrases)
		var plainText string
		if conversion, convErr := p.converter.Convert(htmlContent); convErr == nil {
			plainText = conversion.GetTextContent()
		}

		fingerprint := contentFingerprint(plainText, htmlContent)
		if p.dataStore.NewsletterExistsByFingerprint(fingerprint) {
			stats.skipped++
			continue
		}

		record := store.NewNewsletterRecord(
			"",
			archiveEntryDate(entry.GetDateStr(), fetchStartTime),
			scraped.GetSubject(),
			"",
			"",
			sourceID,
			htmlContent,
			plainText,
			fingerprint,
		)
		saved, saveErr := p.dataStore.SaveNewsletter(record)
		if saveErr != nil {
			stats.errors++
			continue
		}

		stats.queued += p.analyzeAndMatch(ctx, saved)

		p.metadataSink.RecordIngest(
			scraped.GetURL(),
			sourceID,
			"html",
			time.Since(fetchStartTime),
			true,
		)
		stats.processed++
	}

	return IngestExecution{stats: stats}, nil
}

// archiveEntryDate prefers the archive listing's own date; issues the
// archive does not date get the fetch time.
func archiveEntryDate(dateStr string, fallback time.Time) time.Time {
	if parsed, err := scrape.ParseArchiveDate(dateStr); err == nil {
		return parsed
	}
	return fallback
}
