package privacy

import (
	"fmt"

	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/pkg/failure"
)

type PatternErrorCause string

const (
	ErrCauseBadURLPattern   PatternErrorCause = "invalid url pattern"
	ErrCauseBadTextPattern  PatternErrorCause = "invalid text pattern"
	ErrCauseBadSelector     PatternErrorCause = "invalid css selector"
	ErrCauseBadPatternFile  PatternErrorCause = "unreadable pattern file"
	ErrCauseBadPatternJSON  PatternErrorCause = "malformed pattern document"
)

// PatternError is a configuration error. It is surfaced once at
// PatternSet construction time, never per sanitization call, so a bad
// operator-supplied pattern is noticed immediately instead of silently
// sanitizing nothing.
type PatternError struct {
	Message string
	Pattern string
	Cause   PatternErrorCause
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern error: %s: %q", e.Cause, e.Pattern)
}

func (e *PatternError) Severity() failure.Severity {
	return failure.SeverityFatal
}

type SanitizationErrorCause string

const (
	ErrCauseUnparseableHTML SanitizationErrorCause = "unparseable html"
	ErrCauseRenderFailure   SanitizationErrorCause = "render failure"
)

// SanitizationError never escapes the engine: it is recorded through the
// metadata sink and the original content is returned instead.
type SanitizationError struct {
	Message   string
	Retryable bool
	Cause     SanitizationErrorCause
}

func (e *SanitizationError) Error() string {
	return fmt.Sprintf("sanitization error: %s", e.Cause)
}

func (e *SanitizationError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapSanitizationErrorToMetadataCause maps engine-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapSanitizationErrorToMetadataCause(err *SanitizationError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseUnparseableHTML, ErrCauseRenderFailure:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
