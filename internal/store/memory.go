package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/rules"
)

// MemoryStore keeps every record in process memory behind a single
// RWMutex. Reads return copies; callers never share slice backing
// arrays with the store.
type MemoryStore struct {
	metadataSink metadata.MetadataSink

	mu              sync.RWMutex
	newsletters     map[string]NewsletterRecord
	newslettersByID []string
	uidIndex        map[string]string
	fpIndex         map[string]string
	sources         map[string]Source
	sourceOrder     []string
	mappings        []mailparse.SourceMapping
	ruleSet         map[string]rules.Rule
	ruleOrder       []string
	notifications   map[string]Notification
	notifOrder      []string
	notifKeys       map[string]struct{}
	nextNewsletter  int
	nextNotif       int
}

func NewMemoryStore(metadataSink metadata.MetadataSink) MemoryStore {
	return MemoryStore{
		metadataSink:  metadataSink,
		newsletters:   make(map[string]NewsletterRecord),
		uidIndex:      make(map[string]string),
		fpIndex:       make(map[string]string),
		sources:       make(map[string]Source),
		ruleSet:       make(map[string]rules.Rule),
		notifications: make(map[string]Notification),
		notifKeys:     make(map[string]struct{}),
	}
}

func (s *MemoryStore) NewsletterExistsByUID(emailUID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.uidIndex[emailUID]
	return ok
}

func (s *MemoryStore) NewsletterExistsByFingerprint(fingerprint string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.fpIndex[fingerprint]
	return ok
}

// SaveNewsletter assigns an ID and persists the record. A record whose
// email UID or content fingerprint is already stored is rejected; the
// caller decides whether a duplicate is a skip or a failure.
func (s *MemoryStore) SaveNewsletter(record NewsletterRecord) (NewsletterRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.emailUID != "" {
		if _, ok := s.uidIndex[record.emailUID]; ok {
			return NewsletterRecord{}, s.failSave(&StorageError{
				Message: fmt.Sprintf("newsletter with uid %s already stored", record.emailUID),
				Cause:   ErrCauseDuplicateNewsletter,
			})
		}
	}
	if record.contentFingerprint != "" {
		if _, ok := s.fpIndex[record.contentFingerprint]; ok {
			return NewsletterRecord{}, s.failSave(&StorageError{
				Message: "newsletter with identical content already stored",
				Cause:   ErrCauseDuplicateNewsletter,
			})
		}
	}

	s.nextNewsletter++
	record.id = fmt.Sprintf("nl-%04d", s.nextNewsletter)

	s.newsletters[record.id] = record
	s.newslettersByID = append(s.newslettersByID, record.id)
	if record.emailUID != "" {
		s.uidIndex[record.emailUID] = record.id
	}
	if record.contentFingerprint != "" {
		s.fpIndex[record.contentFingerprint] = record.id
	}
	return record, nil
}

func (s *MemoryStore) GetNewsletter(id string) (NewsletterRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.newsletters[id]
	return record, ok
}

// ListNewsletters returns records in insertion order.
func (s *MemoryStore) ListNewsletters() []NewsletterRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]NewsletterRecord, 0, len(s.newslettersByID))
	for _, id := range s.newslettersByID {
		out = append(out, s.newsletters[id])
	}
	return out
}

func (s *MemoryStore) UpdateNewsletterAnalysis(id string, topics []string, summary string, relevanceScore float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.newsletters[id]
	if !ok {
		return s.failSave(&StorageError{
			Message: fmt.Sprintf("newsletter %s not found", id),
			Cause:   ErrCauseNotFound,
		})
	}
	s.newsletters[id] = record.WithAnalysis(topics, summary, relevanceScore)
	return nil
}

// SaveSource upserts by source ID.
func (s *MemoryStore) SaveSource(source Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sources[source.id]; !ok {
		s.sourceOrder = append(s.sourceOrder, source.id)
	}
	s.sources[source.id] = source
}

func (s *MemoryStore) GetSource(id string) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.sources[id]
	return source, ok
}

func (s *MemoryStore) ListSources() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Source, 0, len(s.sourceOrder))
	for _, id := range s.sourceOrder {
		out = append(out, s.sources[id])
	}
	return out
}

// SaveMapping appends to the mapping list. Lookup order is insertion
// order, first match wins, so operators list specific patterns before
// broad ones.
func (s *MemoryStore) SaveMapping(mapping mailparse.SourceMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mappings = append(s.mappings, mapping)
}

func (s *MemoryStore) ListMappings() []mailparse.SourceMapping {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]mailparse.SourceMapping, len(s.mappings))
	copy(out, s.mappings)
	return out
}

// SaveRule upserts by rule ID.
func (s *MemoryStore) SaveRule(rule rules.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ruleSet[rule.GetID()]; !ok {
		s.ruleOrder = append(s.ruleOrder, rule.GetID())
	}
	s.ruleSet[rule.GetID()] = rule
}

func (s *MemoryStore) ListActiveRules() []rules.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rules.Rule, 0, len(s.ruleOrder))
	for _, id := range s.ruleOrder {
		if rule := s.ruleSet[id]; rule.IsActive() {
			out = append(out, rule)
		}
	}
	return out
}

// QueueNotification enqueues a pending notification. Returns false when
// the (user, newsletter, rule) triple is already queued; that is not an
// error, repeated rule evaluation over the same newsletter is expected.
func (s *MemoryStore) QueueNotification(userID string, newsletterID string, ruleID string) (bool, error) {
	if userID == "" || newsletterID == "" || ruleID == "" {
		return false, s.failSave(&StorageError{
			Message: "notification requires user, newsletter and rule IDs",
			Cause:   ErrCauseEmptyKey,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID + "|" + newsletterID + "|" + ruleID
	if _, ok := s.notifKeys[key]; ok {
		return false, nil
	}

	s.nextNotif++
	notification := Notification{
		id:           fmt.Sprintf("ntf-%04d", s.nextNotif),
		userID:       userID,
		newsletterID: newsletterID,
		ruleID:       ruleID,
		status:       NotificationPending,
		queuedAt:     time.Now(),
	}
	s.notifications[notification.id] = notification
	s.notifOrder = append(s.notifOrder, notification.id)
	s.notifKeys[key] = struct{}{}
	return true, nil
}

func (s *MemoryStore) ListPendingNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0, len(s.notifOrder))
	for _, id := range s.notifOrder {
		if notification := s.notifications[id]; notification.status == NotificationPending {
			out = append(out, notification)
		}
	}
	return out
}

func (s *MemoryStore) MarkNotificationSent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[id]
	if !ok {
		return s.failSave(&StorageError{
			Message: fmt.Sprintf("notification %s not found", id),
			Cause:   ErrCauseNotFound,
		})
	}
	notification.status = NotificationSent
	s.notifications[id] = notification
	return nil
}

// failSave records the error observationally and returns it unchanged.
func (s *MemoryStore) failSave(err *StorageError) *StorageError {
	s.metadataSink.RecordError(
		time.Now(),
		"store",
		"save",
		mapStorageErrorToMetadataCause(err),
		err.Message,
		nil,
	)
	return err
}
