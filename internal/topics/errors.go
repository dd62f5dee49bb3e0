package topics

import (
	"fmt"

	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseEndpointUnreachable ExtractionErrorCause = "endpoint unreachable"
	ErrCauseEmptyResponse       ExtractionErrorCause = "empty response"
	ErrCauseBadResponseJSON     ExtractionErrorCause = "bad response json"
)

type ExtractionError struct {
	Message   string
	Retryable bool
	Cause     ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s", e.Cause)
}

func (e *ExtractionError) IsRetryable() bool {
	return e.Retryable
}

func (e *ExtractionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapExtractionErrorToMetadataCause maps topics-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseEndpointUnreachable:
		return metadata.CauseNetworkFailure
	case ErrCauseEmptyResponse, ErrCauseBadResponseJSON:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
