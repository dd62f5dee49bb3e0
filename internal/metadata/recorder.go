package metadata

import (
	"sync"
	"time"
)

/*
Metadata Collected
- Ingest timestamps and durations
- Source mapping outcomes
- Sanitization fallbacks
- Stored artifact references

Logging Goals
- Debuggable ingest behavior
- Post-run auditability
- Failure diagnostics

Determinism guarantees:
 - Metadata does not affect control flow
 - Errors do not reorder message processing
 - Output is stable given identical inputs

Metadata is write-only.
No component may read metadata to influence ingest decisions.
The only sanctioned readers are tests and post-run reporting,
through the accessor methods on Recorder.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordIngest(
		messageUID string,
		sourceID string,
		contentType string,
		duration time.Duration,
		sanitized bool,
	)

	RecordFetch(
		fetchURL string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		retryCount int,
	)

	RecordArtifact(kind ArtifactKind, ref string, attrs []Attribute)
}

type IngestFinalizer interface {
	RecordFinalIngestStats(
		totalProcessed int,
		totalSkipped int,
		totalUnmapped int,
		totalErrors int,
		duration time.Duration,
	)
}

/*
Recorder captures structured ingest events in memory.
It must not:
- perform I/O decisions
- affect control flow
- impose a logging backend
Ordering guarantees:
- Events are recorded synchronously in the order they are received by a single worker.
- No global ordering across workers is guaranteed.
*/
type Recorder struct {
	workerId string

	mu      sync.Mutex
	errors  []ErrorRecord
	ingests []IngestEvent
	fetches []FetchEvent
	stats   *ingestStats
}

func NewRecorder(workerId string) Recorder {
	return Recorder{
		workerId: workerId,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	})
}

func (r *Recorder) RecordIngest(
	messageUID string,
	sourceID string,
	contentType string,
	duration time.Duration,
	sanitized bool,
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ingests = append(r.ingests, IngestEvent{
		messageUID:  messageUID,
		sourceID:    sourceID,
		contentType: contentType,
		duration:    duration,
		sanitized:   sanitized,
	})
}

func (r *Recorder) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fetches = append(r.fetches, FetchEvent{
		fetchURL:    fetchURL,
		httpStatus:  httpStatus,
		duration:    duration,
		contentType: contentType,
		retryCount:  retryCount,
	})
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, ref string, attrs []Attribute) {}

/*
RecordFinalIngestStats records a terminal, derived summary of a completed run.

Contract:
  - MUST be called exactly once per ingest execution.
  - MUST be called only after run termination.
  - The provided stats MUST be derived from pipeline state,
    not accumulated incrementally via the recorder.
  - Recorded stats MUST NOT influence control flow.
*/
func (r *Recorder) RecordFinalIngestStats(
	totalProcessed int,
	totalSkipped int,
	totalUnmapped int,
	totalErrors int,
	duration time.Duration,
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats = &ingestStats{
		totalProcessed: totalProcessed,
		totalSkipped:   totalSkipped,
		totalUnmapped:  totalUnmapped,
		totalErrors:    totalErrors,
		durationMs:     duration.Milliseconds(),
	}
}

// Errors returns a copy of the recorded error events.
// Intended for tests and post-run reporting only.
func (r *Recorder) Errors() []ErrorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ErrorRecord, len(r.errors))
	copy(out, r.errors)
	return out
}

// IngestCount returns the number of recorded ingest events.
func (r *Recorder) IngestCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.ingests)
}

// FetchCount returns the number of recorded fetch events.
func (r *Recorder) FetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.fetches)
}

// NoopSink implements MetadataSink but does nothing.
// The pipeline (or a test) decides whether to inject Recorder or NoopSink;
// the purpose is to keep metadata orthogonal.

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordIngest(
	messageUID string,
	sourceID string,
	contentType string,
	duration time.Duration,
	sanitized bool,
) {
}

func (n *NoopSink) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
) {
}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, ref string, attrs []Attribute) {}

// Compile-time interface checks
var _ MetadataSink = (*Recorder)(nil)
var _ MetadataSink = (*NoopSink)(nil)
var _ IngestFinalizer = (*Recorder)(nil)
