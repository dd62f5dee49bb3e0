package digest

import "time"

// Representation

// Item is one newsletter entry in a user's digest, already joined
// against the stored newsletter and its source.
type Item struct {
	newsletterID string
	subject      string
	receivedDate time.Time
	summary      string
	topics       []string
	sourceName   string
	wardNumber   int
}

func NewItem(
	newsletterID string,
	subject string,
	receivedDate time.Time,
	summary string,
	topics []string,
	sourceName string,
	wardNumber int,
) Item {
	copied := make([]string, len(topics))
	copy(copied, topics)
	return Item{
		newsletterID: newsletterID,
		subject:      subject,
		receivedDate: receivedDate,
		summary:      summary,
		topics:       copied,
		sourceName:   sourceName,
		wardNumber:   wardNumber,
	}
}

func (i *Item) GetNewsletterID() string {
	return i.newsletterID
}

func (i *Item) GetSubject() string {
	return i.subject
}

// Digest is one rendered daily digest for one user. The Markdown body
// is the canonical rendering; the HTML body is derived from it and is
// what the mail sender puts on the wire.
type Digest struct {
	userID        string
	subject       string
	markdownBody  string
	htmlBody      string
	newsletterIDs []string
}

func (d *Digest) GetUserID() string {
	return d.userID
}

func (d *Digest) GetSubject() string {
	return d.subject
}

func (d *Digest) GetMarkdownBody() string {
	return d.markdownBody
}

func (d *Digest) GetHTMLBody() string {
	return d.htmlBody
}

// GetNewsletterIDs returns the deduplicated newsletter IDs the digest
// covers, in rendered order.
func (d *Digest) GetNewsletterIDs() []string {
	ids := make([]string, len(d.newsletterIDs))
	copy(ids, d.newsletterIDs)
	return ids
}
