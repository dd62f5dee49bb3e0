package pipeline

import (
	"time"

	"github.com/wardpost/wardpost/internal/digest"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/store"
	"github.com/wardpost/wardpost/internal/unsubtoken"
)

// BuildPendingDigests groups the pending notification queue by user and
// renders one digest per user. Nothing is marked sent here; delivery is
// external, and MarkDigestSent runs after it succeeds.
func (p *Pipeline) BuildPendingDigests(
	digestDate time.Time,
	preferencesURL string,
	unsubscribeBaseURL string,
	signingSecret []byte,
) []digest.Digest {
	pending := p.dataStore.ListPendingNotifications()
	if len(pending) == 0 {
		return nil
	}

	byUser := make(map[string][]store.Notification)
	var userOrder []string
	for _, notification := range pending {
		userID := notification.GetUserID()
		if _, ok := byUser[userID]; !ok {
			userOrder = append(userOrder, userID)
		}
		byUser[userID] = append(byUser[userID], notification)
	}

	var digests []digest.Digest
	for _, userID := range userOrder {
		items := p.digestItems(byUser[userID])
		built, err := digest.Build(
			userID,
			items,
			preferencesURL,
			p.unsubscribeURL(unsubscribeBaseURL, userID, signingSecret, digestDate),
			digestDate,
		)
		if err != nil {
			// every notification referenced a missing newsletter; skip the user
			continue
		}
		digests = append(digests, built)
		p.metadataSink.RecordArtifact(metadata.ArtifactDigest, userID, nil)
	}
	return digests
}

// MarkDigestSent marks the digest's user's pending notifications as
// sent and returns how many were marked.
func (p *Pipeline) MarkDigestSent(sent digest.Digest) int {
	var marked int
	for _, notification := range p.dataStore.ListPendingNotifications() {
		if notification.GetUserID() != sent.GetUserID() {
			continue
		}
		if err := p.dataStore.MarkNotificationSent(notification.GetID()); err != nil {
			continue
		}
		marked++
	}
	return marked
}

func (p *Pipeline) digestItems(notifications []store.Notification) []digest.Item {
	var items []digest.Item
	for _, notification := range notifications {
		record, ok := p.dataStore.GetNewsletter(notification.GetNewsletterID())
		if !ok {
			continue
		}

		var sourceName string
		var wardNumber int
		if source, found := p.dataStore.GetSource(record.GetSourceID()); found {
			sourceName = source.GetName()
			wardNumber = source.GetWardNumber()
		}

		items = append(items, digest.NewItem(
			record.GetID(),
			record.GetSubject(),
			record.GetReceivedDate(),
			record.GetSummary(),
			record.GetTopics(),
			sourceName,
			wardNumber,
		))
	}
	return items
}

// unsubscribeURL appends a signed token to the unsubscribe base URL.
// When signing fails the bare base URL is used; the preferences page
// still lets the user unsubscribe after logging in.
func (p *Pipeline) unsubscribeURL(baseURL string, userID string, secret []byte, now time.Time) string {
	token, err := unsubtoken.Generate(userID, secret, unsubtoken.DefaultTTL, now)
	if err != nil {
		p.metadataSink.RecordError(
			time.Now(),
			"pipeline",
			"unsubscribeURL",
			metadata.CauseUnknown,
			err.Error(),
			nil,
		)
		return baseURL
	}
	return baseURL + "?token=" + token
}
