package pipeline_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/pipeline"
	"github.com/wardpost/wardpost/internal/rules"
	"github.com/wardpost/wardpost/internal/unsubtoken"
)

var digestDate = time.Date(2026, 8, 11, 6, 0, 0, 0, time.UTC)

func TestBuildPendingDigests_RendersAndMarksSent(t *testing.T) {
	// Arrange: ingest one newsletter that matches rules of two users.
	mockSink := &mockMetadataSink{}
	p := newSeededPipeline(t, mockSink, nil)
	p.Store().SaveRule(rules.NewRule("rule-1", "user-1", "zoning watch").WithKeywords("zoning"))
	p.Store().SaveRule(rules.NewRule("rule-2", "user-2", "everything"))

	source := &fakeMailSource{messages: []mailparse.Message{
		newMappedMessage("uid-1", "The zoning committee meets Tuesday."),
	}}
	execution, err := p.ExecuteIngest(context.Background(), source)
	require.NoError(t, err)
	require.Equal(t, 2, execution.GetStats().GetQueued())

	secret := []byte("digest-secret")

	// Act
	digests := p.BuildPendingDigests(digestDate, "https://wardpost.example/preferences", "https://wardpost.example/unsubscribe", secret)

	// Assert
	require.Len(t, digests, 2)
	assert.Equal(t, "user-1", digests[0].GetUserID())
	assert.Equal(t, "user-2", digests[1].GetUserID())
	assert.Contains(t, digests[0].GetMarkdownBody(), "## Ward 43 Weekly Update")
	assert.Contains(t, digests[0].GetMarkdownBody(), "**Ward 43 Office (Ward 43)**")

	// the unsubscribe link carries a token that validates back to the user
	md := digests[0].GetMarkdownBody()
	start := "[Unsubscribe](https://wardpost.example/unsubscribe?token="
	require.Contains(t, md, start)
	token := extractToken(t, md, start)
	userID, ok := unsubtoken.Validate(token, secret, digestDate)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)

	// marking one digest sent leaves the other user's queue pending
	marked := p.MarkDigestSent(digests[0])
	assert.Equal(t, 1, marked)
	pending := p.Store().ListPendingNotifications()
	require.Len(t, pending, 1)
	assert.Equal(t, "user-2", pending[0].GetUserID())
}

func TestBuildPendingDigests_EmptyQueue(t *testing.T) {
	p := pipeline.NewPipelineWithDeps(newTestConfig(t), &mockMetadataSink{}, &mockMetadataSink{}, nil, nil)

	digests := p.BuildPendingDigests(digestDate, "p", "u", []byte("secret"))

	assert.Empty(t, digests)
}

func extractToken(t *testing.T, markdown string, prefix string) string {
	t.Helper()
	idx := strings.Index(markdown, prefix)
	require.GreaterOrEqual(t, idx, 0)
	rest := markdown[idx+len(prefix):]
	end := strings.Index(rest, ")")
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}
