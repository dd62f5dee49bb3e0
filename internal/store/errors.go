package store

import (
	"fmt"

	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/pkg/failure"
)

type StorageErrorCause string

const (
	ErrCauseDuplicateNewsletter StorageErrorCause = "duplicate newsletter"
	ErrCauseNotFound            StorageErrorCause = "record not found"
	ErrCauseEmptyKey            StorageErrorCause = "empty key"
)

type StorageError struct {
	Message   string
	Retryable bool
	Cause     StorageErrorCause
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s", e.Cause)
}

func (e *StorageError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapStorageErrorToMetadataCause maps store-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStorageErrorToMetadataCause(err *StorageError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDuplicateNewsletter, ErrCauseNotFound, ErrCauseEmptyKey:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
