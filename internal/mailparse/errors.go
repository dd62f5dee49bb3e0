package mailparse

import (
	"fmt"

	"github.com/wardpost/wardpost/pkg/failure"
)

type MappingErrorCause string

const (
	ErrCauseBadMappingFile MappingErrorCause = "unreadable mapping file"
	ErrCauseBadMappingJSON MappingErrorCause = "malformed mapping document"
	ErrCauseBadPattern     MappingErrorCause = "invalid mapping pattern"
)

// MappingError is a configuration error surfaced when loading or
// compiling source mappings.
type MappingError struct {
	Message string
	Pattern string
	Cause   MappingErrorCause
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping error: %s: %q", e.Cause, e.Pattern)
}

func (e *MappingError) Severity() failure.Severity {
	return failure.SeverityFatal
}
