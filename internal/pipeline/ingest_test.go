package pipeline_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/pipeline"
	"github.com/wardpost/wardpost/internal/rules"
	"github.com/wardpost/wardpost/internal/store"
	"github.com/wardpost/wardpost/internal/topics"
)

func newSeededPipeline(t *testing.T, mockSink *mockMetadataSink, extractor topics.Extractor) pipeline.Pipeline {
	t.Helper()
	p := pipeline.NewPipelineWithDeps(newTestConfig(t), mockSink, mockSink, nil, extractor)
	p.Store().SaveSource(store.NewSource("ward43", "Ward 43 Office", "alderman", 43))
	p.Store().SaveMapping(mailparse.NewSourceMapping("%@ward43.org", "ward43"))
	return p
}

func TestExecuteIngest_EndToEnd(t *testing.T) {
	// Arrange
	mockSink := &mockMetadataSink{}
	p := newSeededPipeline(t, mockSink, nil)
	p.Store().SaveRule(rules.NewRule("rule-1", "user-1", "zoning watch").WithKeywords("zoning"))

	source := &fakeMailSource{messages: []mailparse.Message{
		newMappedMessage("uid-1", "The zoning committee meets Tuesday."),
		mailparse.NewMessage("uid-2", "stranger@elsewhere.com", "resident@example.com",
			"Unrelated", receivedDate, "", "plain body"),
	}}

	// Act
	execution, err := p.ExecuteIngest(context.Background(), source)

	// Assert
	require.NoError(t, err)
	stats := execution.GetStats()
	assert.Equal(t, 1, stats.GetProcessed())
	assert.Equal(t, 1, stats.GetUnmapped())
	assert.Equal(t, 0, stats.GetSkipped())
	assert.Equal(t, 1, stats.GetQueued())

	stored := p.Store().ListNewsletters()
	require.Len(t, stored, 1)
	assert.NotContains(t, stored[0].GetRawHTML(), "list-manage.com", "tracking links are sanitized before storage")
	assert.Contains(t, stored[0].GetPlainText(), "zoning committee")

	pending := p.Store().ListPendingNotifications()
	require.Len(t, pending, 1)
	assert.Equal(t, "user-1", pending[0].GetUserID())
	assert.Equal(t, "rule-1", pending[0].GetRuleID())

	// final stats recorded exactly once
	require.Len(t, mockSink.stats, 1)
	assert.Equal(t, 1, mockSink.stats[0].processed)
	assert.Equal(t, 1, mockSink.stats[0].unmapped)
}

func TestExecuteIngest_WritesUnmappedReport(t *testing.T) {
	mockSink := &mockMetadataSink{}
	p := newSeededPipeline(t, mockSink, nil)
	source := &fakeMailSource{messages: []mailparse.Message{
		mailparse.NewMessage("uid-1", "stranger@elsewhere.com", "resident@example.com",
			"Mystery Newsletter", receivedDate, "", "body"),
	}}

	execution, err := p.ExecuteIngest(context.Background(), source)

	require.NoError(t, err)
	require.NotEmpty(t, execution.GetReportPath())

	content, readErr := os.ReadFile(execution.GetReportPath())
	require.NoError(t, readErr)
	assert.Contains(t, string(content), "Unmapped Emails Report")
	assert.Contains(t, string(content), "1. From: stranger@elsewhere.com")
	assert.Contains(t, string(content), "Subject: Mystery Newsletter")

	require.Len(t, mockSink.artifacts, 1)
	assert.Equal(t, metadata.ArtifactReport, mockSink.artifacts[0].kind)
	assert.Equal(t, execution.GetReportPath(), mockSink.artifacts[0].ref)
}

func TestExecuteIngest_DedupesByUID(t *testing.T) {
	mockSink := &mockMetadataSink{}
	p := newSeededPipeline(t, mockSink, nil)
	source := &fakeMailSource{messages: []mailparse.Message{
		newMappedMessage("uid-1", "First delivery."),
		newMappedMessage("uid-1", "Second delivery of the same UID."),
	}}

	execution, err := p.ExecuteIngest(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, 1, execution.GetStats().GetProcessed())
	assert.Equal(t, 1, execution.GetStats().GetSkipped())
	assert.Len(t, p.Store().ListNewsletters(), 1)
}

func TestExecuteIngest_DedupesByContentFingerprint(t *testing.T) {
	mockSink := &mockMetadataSink{}
	p := newSeededPipeline(t, mockSink, nil)
	// Same body forwarded under a fresh UID.
	source := &fakeMailSource{messages: []mailparse.Message{
		newMappedMessage("uid-1", "Identical content."),
		newMappedMessage("uid-2", "Identical content."),
	}}

	execution, err := p.ExecuteIngest(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, 1, execution.GetStats().GetProcessed())
	assert.Equal(t, 1, execution.GetStats().GetSkipped())
}

func TestExecuteIngest_ExtractorDrivesTopicRules(t *testing.T) {
	mockSink := &mockMetadataSink{}
	extractor := &fakeExtractor{
		analysis: topics.NewAnalysis([]string{"zoning_reform"}, "Zoning hearing scheduled.", 8, true),
	}
	p := newSeededPipeline(t, mockSink, extractor)
	p.Store().SaveRule(rules.NewRule("rule-1", "user-1", "zoning topics").
		WithTopics("zoning_reform").
		WithMinRelevance(7))

	source := &fakeMailSource{messages: []mailparse.Message{
		newMappedMessage("uid-1", "The zoning committee meets Tuesday."),
	}}

	execution, err := p.ExecuteIngest(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, 1, execution.GetStats().GetQueued())

	stored := p.Store().ListNewsletters()
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"zoning_reform"}, stored[0].GetTopics())
	assert.Equal(t, "Zoning hearing scheduled.", stored[0].GetSummary())
	assert.Equal(t, 8.0, stored[0].GetRelevanceScore())
}

func TestExecuteIngest_WardFilterUsesSourceRegistry(t *testing.T) {
	mockSink := &mockMetadataSink{}
	p := newSeededPipeline(t, mockSink, nil)
	p.Store().SaveRule(rules.NewRule("rule-1", "user-1", "ward 43 only").WithWardNumbers(43))
	p.Store().SaveRule(rules.NewRule("rule-2", "user-2", "ward 50 only").WithWardNumbers(50))

	source := &fakeMailSource{messages: []mailparse.Message{
		newMappedMessage("uid-1", "Office hours this Friday."),
	}}

	execution, err := p.ExecuteIngest(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, 1, execution.GetStats().GetQueued())
	pending := p.Store().ListPendingNotifications()
	require.Len(t, pending, 1)
	assert.Equal(t, "rule-1", pending[0].GetRuleID())
}

func TestExecuteIngest_MailSourceFailure(t *testing.T) {
	mockSink := &mockMetadataSink{}
	p := newSeededPipeline(t, mockSink, nil)
	source := &fakeMailSource{err: errors.New("imap connection refused")}

	_, err := p.ExecuteIngest(context.Background(), source)

	require.Error(t, err)
	require.Len(t, mockSink.errors, 1)
	assert.Equal(t, "pipeline", mockSink.errors[0].packageName)
	assert.Equal(t, metadata.CauseNetworkFailure, mockSink.errors[0].cause)
	require.Len(t, mockSink.stats, 1, "final stats are recorded even on abort")
}
