package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/rules"
	"github.com/wardpost/wardpost/internal/store"
	"github.com/wardpost/wardpost/pkg/fileutil"
	"github.com/wardpost/wardpost/pkg/hashutil"
)

// ExecuteIngest runs the mail ingest: fetch, dedupe, parse and sanitize,
// analyze, store, match rules, queue notifications. Per-message failures
// are counted, never fatal. Final stats are recorded exactly once.
func (p *Pipeline) ExecuteIngest(ctx context.Context, source MailSource) (IngestExecution, error) {
	ingestStartTime := time.Now()
	var stats IngestStats

	// Ensure final stats are recorded even if errors occur
	defer func() {
		p.ingestFinalizer.RecordFinalIngestStats(
			stats.processed,
			stats.skipped,
			stats.unmapped,
			stats.errors,
			time.Since(ingestStartTime),
		)
	}()

	// 1. Resolve the active pattern set
	patterns, patternErr := p.loadPatterns()
	if patternErr != nil {
		return IngestExecution{}, patternErr
	}

	// 2. Fetch messages from the mail source
	messages, err := source.FetchMessages(ctx)
	if err != nil {
		p.metadataSink.RecordError(
			time.Now(),
			"pipeline",
			"ExecuteIngest",
			metadata.CauseNetworkFailure,
			err.Error(),
			nil,
		)
		return IngestExecution{}, err
	}

	mappings := p.dataStore.ListMappings()
	phrases := p.cfg.StripPhrases()
	var unmappedEntries []unmappedEntry

	for _, msg := range messages {
		if ctx.Err() != nil {
			return IngestExecution{stats: stats}, ctx.Err()
		}
		messageStartTime := time.Now()

		// 3. Dedupe by email UID before any parsing work
		if p.dataStore.NewsletterExistsByUID(msg.GetUID()) {
			stats.skipped++
			continue
		}

		// 4. Parse and sanitize; the parser never fails
		newsletter := p.parser.ParseNewsletter(msg, mappings, patterns, phrases)
		if !newsletter.IsMapped() {
			// unmapped senders are reported, not stored
			stats.unmapped++
			unmappedEntries = append(unmappedEntries, unmappedEntry{
				from:    newsletter.GetFromEmail(),
				subject: newsletter.GetSubject(),
				date:    newsletter.GetReceivedDate(),
			})
			continue
		}

		// 5. Dedupe by content fingerprint; forwarded copies arrive
		// under fresh UIDs
		fingerprint := contentFingerprint(newsletter.GetPlainText(), newsletter.GetRawHTML())
		if p.dataStore.NewsletterExistsByFingerprint(fingerprint) {
			stats.skipped++
			continue
		}

		// 6. Store
		record := store.NewNewsletterRecord(
			newsletter.GetEmailUID(),
			newsletter.GetReceivedDate(),
			newsletter.GetSubject(),
			newsletter.GetFromEmail(),
			newsletter.GetToEmail(),
			newsletter.GetSourceID(),
			newsletter.GetRawHTML(),
			newsletter.GetPlainText(),
			fingerprint,
		)
		saved, saveErr := p.dataStore.SaveNewsletter(record)
		if saveErr != nil {
			// the store already recorded the failure
			stats.errors++
			continue
		}

		// 7. Analyze, match rules, queue notifications
		stats.queued += p.analyzeAndMatch(ctx, saved)

		p.metadataSink.RecordIngest(
			msg.GetUID(),
			newsletter.GetSourceID(),
			ingestContentType(msg),
			time.Since(messageStartTime),
			true,
		)
		stats.processed++
	}

	// 8. Write the unmapped-sender report
	reportPath := p.writeUnmappedReport(unmappedEntries, ingestStartTime, &stats)

	return IngestExecution{
		stats:      stats,
		reportPath: reportPath,
	}, nil
}

// analyzeAndMatch runs optional LLM analysis, evaluates the active
// rules and queues notifications. Returns how many were queued.
func (p *Pipeline) analyzeAndMatch(ctx context.Context, saved store.NewsletterRecord) int {
	newsletterTopics := saved.GetTopics()
	var relevance float64
	var hasRelevance bool

	if p.extractor != nil {
		analysis, err := p.extractor.Analyze(ctx, saved.GetSubject(), saved.GetPlainText())
		if err == nil {
			newsletterTopics = analysis.GetTopics()
			relevance = analysis.GetRelevance()
			hasRelevance = analysis.HasRelevance()
			// update failures are recorded by the store; the analysis
			// is still usable for matching
			_ = p.dataStore.UpdateNewsletterAnalysis(saved.GetID(), newsletterTopics, analysis.GetSummary(), relevance)
		}
	}

	facts := rules.NewNewsletterFacts(newsletterTopics, saved.GetPlainText(), saved.GetSourceID())
	if source, ok := p.dataStore.GetSource(saved.GetSourceID()); ok && source.GetWardNumber() > 0 {
		facts = facts.WithWardNumber(source.GetWardNumber())
	}
	if hasRelevance {
		facts = facts.WithRelevance(relevance)
	}

	var queued int
	for _, match := range rules.Match(facts, p.dataStore.ListActiveRules()) {
		ok, queueErr := p.dataStore.QueueNotification(match.GetUserID(), saved.GetID(), match.GetRuleID())
		if queueErr != nil {
			// recorded by the store; duplicates and bad keys never abort a run
			continue
		}
		if ok {
			queued++
		}
	}
	return queued
}

// writeUnmappedReport persists the unmapped-sender report and returns
// its path, or "" when there was nothing to report or the write failed.
func (p *Pipeline) writeUnmappedReport(entries []unmappedEntry, runStart time.Time, stats *IngestStats) string {
	if len(entries) == 0 {
		return ""
	}

	filename := fmt.Sprintf("unmapped_emails_%s.txt", runStart.Format("20060102_150405"))

	var b strings.Builder
	fmt.Fprintf(&b, "Unmapped Emails Report - %s\n", runStart.Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. From: %s\n", i+1, entry.from)
		fmt.Fprintf(&b, "   Subject: %s\n", entry.subject)
		fmt.Fprintf(&b, "   Date: %s\n\n", entry.date.Format(time.RFC3339))
	}

	if err := fileutil.WriteReport(p.cfg.OutputDir(), filename, []byte(b.String())); err != nil {
		p.metadataSink.RecordError(
			time.Now(),
			"pipeline",
			"writeUnmappedReport",
			metadata.CauseStorageFailure,
			err.Error(),
			nil,
		)
		stats.errors++
		return ""
	}

	reportPath := filepath.Join(p.cfg.OutputDir(), filename)
	p.metadataSink.RecordArtifact(metadata.ArtifactReport, reportPath, nil)
	return reportPath
}

// contentFingerprint prefers the plain text rendering; HTML is the
// fallback for messages whose conversion produced nothing.
func contentFingerprint(plainText string, rawHTML string) string {
	if plainText != "" {
		return hashutil.ContentFingerprint(plainText)
	}
	return hashutil.ContentFingerprint(rawHTML)
}

func ingestContentType(msg mailparse.Message) string {
	if msg.GetHTMLBody() != "" {
		return "html"
	}
	return "text"
}
