package mailparse

import "time"

// Representation

// Message is a single fetched mail message, transport-agnostic. The
// pipeline builds these from its mailbox client; tests build them
// directly.
type Message struct {
	uid      string
	from     string
	to       string
	subject  string
	date     time.Time
	htmlBody string
	textBody string
}

func NewMessage(
	uid string,
	from string,
	to string,
	subject string,
	date time.Time,
	htmlBody string,
	textBody string,
) Message {
	return Message{
		uid:      uid,
		from:     from,
		to:       to,
		subject:  subject,
		date:     date,
		htmlBody: htmlBody,
		textBody: textBody,
	}
}

func (m *Message) GetUID() string {
	return m.uid
}

func (m *Message) GetFrom() string {
	return m.from
}

func (m *Message) GetTo() string {
	return m.to
}

func (m *Message) GetSubject() string {
	return m.subject
}

func (m *Message) GetDate() time.Time {
	return m.date
}

func (m *Message) GetHTMLBody() string {
	return m.htmlBody
}

func (m *Message) GetTextBody() string {
	return m.textBody
}

// SourceMapping binds a sender address pattern to a source. The pattern
// supports the % wildcard; see LookupSource.
type SourceMapping struct {
	emailPattern string
	sourceID     string
}

func NewSourceMapping(
	emailPattern string,
	sourceID string,
) SourceMapping {
	return SourceMapping{
		emailPattern: emailPattern,
		sourceID:     sourceID,
	}
}

func (s *SourceMapping) GetEmailPattern() string {
	return s.emailPattern
}

func (s *SourceMapping) GetSourceID() string {
	return s.sourceID
}

// Newsletter is the parsed, sanitized form of a message, ready for
// storage. SourceID is empty when no mapping matched the sender.
type Newsletter struct {
	emailUID     string
	receivedDate time.Time
	subject      string
	fromEmail    string
	toEmail      string
	sourceID     string
	rawHTML      string
	plainText    string
}

func NewNewsletter(
	emailUID string,
	receivedDate time.Time,
	subject string,
	fromEmail string,
	toEmail string,
	sourceID string,
	rawHTML string,
	plainText string,
) Newsletter {
	return Newsletter{
		emailUID:     emailUID,
		receivedDate: receivedDate,
		subject:      subject,
		fromEmail:    fromEmail,
		toEmail:      toEmail,
		sourceID:     sourceID,
		rawHTML:      rawHTML,
		plainText:    plainText,
	}
}

func (n *Newsletter) GetEmailUID() string {
	return n.emailUID
}

func (n *Newsletter) GetReceivedDate() time.Time {
	return n.receivedDate
}

func (n *Newsletter) GetSubject() string {
	return n.subject
}

func (n *Newsletter) GetFromEmail() string {
	return n.fromEmail
}

func (n *Newsletter) GetToEmail() string {
	return n.toEmail
}

func (n *Newsletter) GetSourceID() string {
	return n.sourceID
}

func (n *Newsletter) IsMapped() bool {
	return n.sourceID != ""
}

func (n *Newsletter) GetRawHTML() string {
	return n.rawHTML
}

func (n *Newsletter) GetPlainText() string {
	return n.plainText
}

// mappingDTO mirrors the external source-mapping document: a JSON array
// of pattern/source pairs.
type mappingDTO struct {
	EmailPattern string `json:"emailPattern"`
	SourceID     string `json:"sourceId"`
}
