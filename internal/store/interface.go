package store

import (
	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/rules"
)

/*
Store is the persistence port for the ingest pipeline.

Responsibilities
- Deduplicate newsletters by email UID and by content fingerprint
- Persist sanitized newsletter records and their analysis results
- Hold the configured sources, email-source mappings and active rules
- Queue rule-match notifications with (user, newsletter, rule) uniqueness

The pipeline depends on this interface only. MemoryStore is the
in-process implementation; a database-backed implementation can be
swapped in without touching the pipeline.
*/
type Store interface {
	NewsletterExistsByUID(emailUID string) bool
	NewsletterExistsByFingerprint(fingerprint string) bool
	SaveNewsletter(record NewsletterRecord) (NewsletterRecord, error)
	GetNewsletter(id string) (NewsletterRecord, bool)
	ListNewsletters() []NewsletterRecord
	UpdateNewsletterAnalysis(id string, topics []string, summary string, relevanceScore float64) error

	SaveSource(source Source)
	GetSource(id string) (Source, bool)
	ListSources() []Source

	SaveMapping(mapping mailparse.SourceMapping)
	ListMappings() []mailparse.SourceMapping

	SaveRule(rule rules.Rule)
	ListActiveRules() []rules.Rule

	QueueNotification(userID string, newsletterID string, ruleID string) (bool, error)
	ListPendingNotifications() []Notification
	MarkNotificationSent(id string) error
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)
