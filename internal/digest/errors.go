package digest

import (
	"fmt"

	"github.com/wardpost/wardpost/pkg/failure"
)

type DigestErrorCause string

const (
	ErrCauseNoItems DigestErrorCause = "no items"
)

type DigestError struct {
	Message string
	Cause   DigestErrorCause
}

func (e *DigestError) Error() string {
	return fmt.Sprintf("digest error: %s", e.Cause)
}

func (e *DigestError) Severity() failure.Severity {
	return failure.SeverityFatal
}
