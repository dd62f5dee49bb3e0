package privacy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/privacy"
)

// mockMetadataSink is a test double for metadata.MetadataSink
type mockMetadataSink struct {
	errors []recordedError
}

type recordedError struct {
	timestamp   time.Time
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
	attrs       []metadata.Attribute
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
		timestamp:   observedAt,
		packageName: packageName,
		action:      action,
		cause:       cause,
		details:     details,
		attrs:       attrs,
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
}

func (m *mockMetadataSink) RecordArtifact(kind metadata.ArtifactKind, ref string, attrs []metadata.Attribute) {
}

// mustPatternSet builds a PatternSet from raw patterns and fails the test
// on any compilation error.
func mustPatternSet(t *testing.T, urlPatterns, textPatterns, selectors []string) privacy.PatternSet {
	t.Helper()
	set, err := privacy.NewPatternSet(urlPatterns, textPatterns, selectors)
	require.NoError(t, err, "test pattern set must compile")
	return set
}
