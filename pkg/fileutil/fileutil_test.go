package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardpost/wardpost/pkg/fileutil"
)

func TestEnsureDir_SinglePathComponent(t *testing.T) {
	tmpDir := t.TempDir()
	targetDir := filepath.Join(tmpDir, "testdir")

	err := fileutil.EnsureDir(targetDir)
	require.NoError(t, err)

	info, statErr := os.Stat(targetDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_NestedPathComponents(t *testing.T) {
	tmpDir := t.TempDir()

	err := fileutil.EnsureDir(tmpDir, "reports", "2026", "august")
	require.NoError(t, err)

	info, statErr := os.Stat(filepath.Join(tmpDir, "reports", "2026", "august"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_ExistingDirIsNoop(t *testing.T) {
	tmpDir := t.TempDir()

	err := fileutil.EnsureDir(tmpDir)
	require.NoError(t, err)

	err = fileutil.EnsureDir(tmpDir)
	assert.NoError(t, err)
}

func TestWriteReport(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("Unmapped Emails Report\n1. From: stranger@elsewhere.com\n")

	err := fileutil.WriteReport(tmpDir, "unmapped_emails.txt", content)
	require.NoError(t, err)

	written, readErr := os.ReadFile(filepath.Join(tmpDir, "unmapped_emails.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, content, written)
}

func TestWriteReport_CreatesMissingDir(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "not-yet-created")

	err := fileutil.WriteReport(tmpDir, "report.txt", []byte("content"))
	require.NoError(t, err)

	written, readErr := os.ReadFile(filepath.Join(tmpDir, "report.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, []byte("content"), written)
}

func TestWriteReport_OverwritesExistingFile(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, fileutil.WriteReport(tmpDir, "report.txt", []byte("first run")))
	require.NoError(t, fileutil.WriteReport(tmpDir, "report.txt", []byte("second run")))

	written, readErr := os.ReadFile(filepath.Join(tmpDir, "report.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, []byte("second run"), written)
}

func TestWriteReport_UnwritableDirReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	// A file standing where the directory should be makes EnsureDir fail
	blocker := filepath.Join(tmpDir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0644))

	err := fileutil.WriteReport(blocker, "report.txt", []byte("content"))
	assert.Error(t, err)
}
