package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wardpost/wardpost/pkg/failure"
)

// EnsureDir checks if a given directory plus the following path exists, then creates one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	target := filepath.Join(targetPath...)
	if err := os.MkdirAll(target, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}

// WriteReport writes a text report under dir, creating dir if needed.
// Used for the unmapped-sender report emitted at the end of an ingest run.
func WriteReport(dir string, filename string, content []byte) failure.ClassifiedError {
	if err := EnsureDir(dir); err != nil {
		return err
	}

	fullPath := filepath.Join(dir, filename)
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCauseWriteError,
		}
	}
	return nil
}
