package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wardpost/wardpost/internal/config"
	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/topics"
)

// mockMetadataSink is a test double for metadata.MetadataSink and
// metadata.IngestFinalizer
type mockMetadataSink struct {
	errors    []recordedError
	ingests   []recordedIngest
	artifacts []recordedArtifact
	stats     []recordedStats
}

type recordedError struct {
	packageName string
	action      string
	cause       metadata.ErrorCause
}

type recordedIngest struct {
	messageUID string
	sourceID   string
}

type recordedArtifact struct {
	kind metadata.ArtifactKind
	ref  string
}

type recordedStats struct {
	processed int
	skipped   int
	unmapped  int
	errors    int
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errors = append(m.errors, recordedError{
		packageName: packageName,
		action:      action,
		cause:       cause,
	})
}

func (m *mockMetadataSink) RecordIngest(
	messageUID string,
	sourceID string,
	contentType string,
	duration time.Duration,
	sanitized bool,
) {
	m.ingests = append(m.ingests, recordedIngest{
		messageUID: messageUID,
		sourceID:   sourceID,
	})
}

func (m *mockMetadataSink) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
}

func (m *mockMetadataSink) RecordArtifact(kind metadata.ArtifactKind, ref string, attrs []metadata.Attribute) {
	m.artifacts = append(m.artifacts, recordedArtifact{
		kind: kind,
		ref:  ref,
	})
}

func (m *mockMetadataSink) RecordFinalIngestStats(
	totalProcessed int,
	totalSkipped int,
	totalUnmapped int,
	totalErrors int,
	duration time.Duration,
) {
	m.stats = append(m.stats, recordedStats{
		processed: totalProcessed,
		skipped:   totalSkipped,
		unmapped:  totalUnmapped,
		errors:    totalErrors,
	})
}

// fakeMailSource returns a fixed batch of messages.
type fakeMailSource struct {
	messages []mailparse.Message
	err      error
}

func (f *fakeMailSource) FetchMessages(ctx context.Context) ([]mailparse.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}

// fakeExtractor returns a fixed analysis without any LLM round trip.
type fakeExtractor struct {
	analysis topics.Analysis
}

func (f *fakeExtractor) Analyze(ctx context.Context, subject string, plainText string) (topics.Analysis, error) {
	return f.analysis, nil
}

func newTestConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.WithDefault().
		WithBaseDelay(0).
		WithJitter(0).
		WithOutputDir(t.TempDir()).
		Build()
	require.NoError(t, err)
	return cfg
}

var receivedDate = time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

func newMappedMessage(uid string, body string) mailparse.Message {
	return mailparse.NewMessage(
		uid,
		"alderman@ward43.org",
		"resident@example.com",
		"Ward 43 Weekly Update",
		receivedDate,
		`<html><body><p>`+body+`</p>
			<a href="https://ward43.us1.list-manage.com/unsubscribe?u=1">Unsubscribe</a></body></html>`,
		"",
	)
}
