package metadata

import (
	"time"
)

type IngestEvent struct {
	messageUID  string
	sourceID    string
	contentType string
	duration    time.Duration
	sanitized   bool
}

// FetchEvent captures one archive-page fetch, successful or not.
type FetchEvent struct {
	fetchURL    string
	httpStatus  int
	duration    time.Duration
	contentType string
	retryCount  int
}

/*
ingestStats
  - Represents a terminal, derived summary of a completed ingest run
  - Contains only aggregate counts and durations
  - Is computed by the pipeline after run termination
  - Is recorded exactly once
  - Must not influence dedup, retries, or run termination
*/
type ingestStats struct {
	totalProcessed int
	totalSkipped   int
	totalUnmapped  int
	totalErrors    int
	durationMs     int64
}

type ArtifactKind string

const (
	ArtifactNewsletter ArtifactKind = "newsletter"
	ArtifactReport     ArtifactKind = "report"
	ArtifactDigest     ArtifactKind = "digest"
)

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.

# CauseUnknown

  - The failure does not map cleanly to any known category. Safe fallback.

# CauseNetworkFailure

  - Failure caused by network transport or remote availability:
    timeouts, DNS failures, connection resets, LLM endpoint unreachable.

# CauseContentInvalid

  - Content was retrieved but could not be processed meaningfully:
    unparseable HTML, empty bodies, malformed LLM responses.

# CausePatternInvalid

  - A privacy pattern set failed to compile: bad regex syntax or bad
    CSS selector syntax in the operator-supplied configuration.

# CauseStorageFailure

  - Failure while persisting newsletters, notifications, or reports.

# CauseSourceUnmapped

  - A newsletter arrived from a sender with no configured source mapping.

# CausePolicyDisallow

  - The remote host refused service: rate limiting or repeated 403s
    during archive scraping.

# CauseRetryFailure

  - A retried operation exhausted its attempt budget.
*/
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseContentInvalid
	CausePatternInvalid
	CauseStorageFailure
	CauseSourceUnmapped
	CausePolicyDisallow
	CauseRetryFailure
)

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

func (e *ErrorRecord) PackageName() string {
	return e.packageName
}

func (e *ErrorRecord) Action() string {
	return e.action
}

func (e *ErrorRecord) Cause() ErrorCause {
	return e.cause
}

func (e *ErrorRecord) ErrorString() string {
	return e.errorString
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime        AttributeKey = "time"
	AttrURL         AttributeKey = "url"
	AttrHost        AttributeKey = "host"
	AttrMessageUID  AttributeKey = "message_uid"
	AttrSourceID    AttributeKey = "source_id"
	AttrFromEmail   AttributeKey = "from_email"
	AttrContentType AttributeKey = "content_type"
	AttrField       AttributeKey = "field"
	AttrHTTPStatus  AttributeKey = "http_status"
	AttrWritePath   AttributeKey = "write_path"
	AttrMessage     AttributeKey = "message"
)
