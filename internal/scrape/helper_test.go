package scrape_test

import (
	"time"

	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/pkg/retry"
	"github.com/wardpost/wardpost/pkg/timeutil"
)

// mockMetadataSink is a test double for metadata.MetadataSink
type mockMetadataSink struct {
	errors  []recordedError
	fetches []recordedFetch
}

type recordedError struct {
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
}

type recordedFetch struct {
	fetchURL    string
	httpStatus  int
	contentType string
	retryCount  int
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
		details:     details,
	})
}

func (m *mockMetadataSink) RecordIngest(
	messageUID string,
	sourceID string,
	contentType string,
	duration time.Duration,
	sanitized bool,
) {
}

func (m *mockMetadataSink) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
	m.fetches = append(m.fetches, recordedFetch{
		fetchURL:    fetchURL,
		httpStatus:  httpStatus,
		contentType: contentType,
		retryCount:  retryCount,
	})
}

func (m *mockMetadataSink) RecordArtifact(kind metadata.ArtifactKind, ref string, attrs []metadata.Attribute) {
}

// fastRetryParam keeps retry backoff short enough for tests.
func fastRetryParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(
		time.Millisecond,
		0,
		1,
		maxAttempts,
		timeutil.NewBackoffParam(time.Millisecond, 2.0, 5*time.Millisecond),
	)
}
