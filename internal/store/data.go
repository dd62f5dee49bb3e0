package store

import "time"

// Representation

// Source is a configured newsletter publisher: an alderman's office, a
// ward organization, or a city department.
type Source struct {
	id         string
	name       string
	sourceType string
	wardNumber int
}

func NewSource(
	id string,
	name string,
	sourceType string,
	wardNumber int,
) Source {
	return Source{
		id:         id,
		name:       name,
		sourceType: sourceType,
		wardNumber: wardNumber,
	}
}

func (s *Source) GetID() string {
	return s.id
}

func (s *Source) GetName() string {
	return s.name
}

func (s *Source) GetSourceType() string {
	return s.sourceType
}

func (s *Source) GetWardNumber() int {
	return s.wardNumber
}

// NewsletterRecord is the persisted form of a sanitized newsletter.
// Topics and relevance are zero until analysis runs; WithAnalysis
// produces the enriched copy.
type NewsletterRecord struct {
	id                 string
	emailUID           string
	receivedDate       time.Time
	subject            string
	fromEmail          string
	toEmail            string
	sourceID           string
	rawHTML            string
	plainText          string
	contentFingerprint string
	topics             []string
	summary            string
	relevanceScore     float64
}

func NewNewsletterRecord(
	emailUID string,
	receivedDate time.Time,
	subject string,
	fromEmail string,
	toEmail string,
	sourceID string,
	rawHTML string,
	plainText string,
	contentFingerprint string,
) NewsletterRecord {
	return NewsletterRecord{
		emailUID:           emailUID,
		receivedDate:       receivedDate,
		subject:            subject,
		fromEmail:          fromEmail,
		toEmail:            toEmail,
		sourceID:           sourceID,
		rawHTML:            rawHTML,
		plainText:          plainText,
		contentFingerprint: contentFingerprint,
	}
}

// WithAnalysis returns a copy of the record carrying topic extraction
// results. The original record is unchanged.
func (n NewsletterRecord) WithAnalysis(topics []string, summary string, relevanceScore float64) NewsletterRecord {
	copied := n
	copied.topics = make([]string, len(topics))
	copy(copied.topics, topics)
	copied.summary = summary
	copied.relevanceScore = relevanceScore
	return copied
}

func (n *NewsletterRecord) GetID() string {
	return n.id
}

func (n *NewsletterRecord) GetEmailUID() string {
	return n.emailUID
}

func (n *NewsletterRecord) GetReceivedDate() time.Time {
	return n.receivedDate
}

func (n *NewsletterRecord) GetSubject() string {
	return n.subject
}

func (n *NewsletterRecord) GetFromEmail() string {
	return n.fromEmail
}

func (n *NewsletterRecord) GetToEmail() string {
	return n.toEmail
}

func (n *NewsletterRecord) GetSourceID() string {
	return n.sourceID
}

func (n *NewsletterRecord) GetRawHTML() string {
	return n.rawHTML
}

func (n *NewsletterRecord) GetPlainText() string {
	return n.plainText
}

func (n *NewsletterRecord) GetContentFingerprint() string {
	return n.contentFingerprint
}

func (n *NewsletterRecord) GetTopics() []string {
	topics := make([]string, len(n.topics))
	copy(topics, n.topics)
	return topics
}

func (n *NewsletterRecord) GetSummary() string {
	return n.summary
}

func (n *NewsletterRecord) GetRelevanceScore() float64 {
	return n.relevanceScore
}

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
)

// Notification is one queued delivery: a user whose rule matched a
// newsletter. The (user, newsletter, rule) triple is unique; re-queueing
// the same triple is a no-op.
type Notification struct {
	id           string
	userID       string
	newsletterID string
	ruleID       string
	status       NotificationStatus
	queuedAt     time.Time
}

func (n *Notification) GetID() string {
	return n.id
}

func (n *Notification) GetUserID() string {
	return n.userID
}

func (n *Notification) GetNewsletterID() string {
	return n.newsletterID
}

func (n *Notification) GetRuleID() string {
	return n.ruleID
}

func (n *Notification) GetStatus() NotificationStatus {
	return n.status
}

func (n *Notification) GetQueuedAt() time.Time {
	return n.queuedAt
}
