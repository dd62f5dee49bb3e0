package topics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/wardpost/wardpost/internal/metadata"
)

// maxContentChars bounds how much newsletter text goes into a prompt.
// Long newsletters get truncated rather than rejected.
const maxContentChars = 100000

/*
OpenAIExtractor runs extraction against any OpenAI-compatible chat
completion endpoint. A non-empty base URL points it at a local
Ollama-style server; the API key is whatever that endpoint expects.

Extraction is three sequential calls per newsletter: topics, then
summary, then relevance. The later prompts carry the earlier results
as context. Each step degrades independently; a failed call records
an error through the sink and leaves that field empty.
*/
type OpenAIExtractor struct {
	client       *openai.Client
	model        string
	maxTopics    int
	metadataSink metadata.MetadataSink
}

func NewOpenAIExtractor(
	baseURL string,
	apiKey string,
	model string,
	timeout time.Duration,
	maxTopics int,
	metadataSink metadata.MetadataSink,
) OpenAIExtractor {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeout,
	}
	return OpenAIExtractor{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        model,
		maxTopics:    maxTopics,
		metadataSink: metadataSink,
	}
}

func (e *OpenAIExtractor) Analyze(ctx context.Context, subject string, plainText string) (Analysis, error) {
	if len(plainText) > maxContentChars {
		plainText = plainText[:maxContentChars]
	}
	content := fmt.Sprintf("Subject: %s\n\n%s", subject, plainText)

	extracted := e.extractTopics(ctx, content)
	if ctx.Err() != nil {
		return Analysis{}, ctx.Err()
	}

	summary := e.generateSummary(ctx, content)
	if ctx.Err() != nil {
		return Analysis{}, ctx.Err()
	}

	relevance, hasRelevance := e.scoreRelevance(ctx, content, extracted, summary)
	if ctx.Err() != nil {
		return Analysis{}, ctx.Err()
	}

	return NewAnalysis(extracted, summary, relevance, hasRelevance), nil
}

func (e *OpenAIExtractor) extractTopics(ctx context.Context, content string) []string {
	raw, extractionErr := e.complete(ctx, topicsPrompt(content))
	if extractionErr != nil {
		e.recordExtractionError("extract_topics", extractionErr)
		return nil
	}
	valid, parseErr := parseTopicsResponse(raw, KnownTopics, e.maxTopics)
	if parseErr != nil {
		e.recordExtractionError("extract_topics", parseErr)
		return nil
	}
	return valid
}

func (e *OpenAIExtractor) generateSummary(ctx context.Context, content string) string {
	raw, extractionErr := e.complete(ctx, summaryPrompt(content))
	if extractionErr != nil {
		e.recordExtractionError("generate_summary", extractionErr)
		return ""
	}
	summary, parseErr := parseSummaryResponse(raw)
	if parseErr != nil {
		e.recordExtractionError("generate_summary", parseErr)
		return ""
	}
	return summary
}

func (e *OpenAIExtractor) scoreRelevance(
	ctx context.Context,
	content string,
	extracted []string,
	summary string,
) (float64, bool) {
	raw, extractionErr := e.complete(ctx, relevancePrompt(content, extracted, summary))
	if extractionErr != nil {
		e.recordExtractionError("score_relevance", extractionErr)
		return 0, false
	}
	score, parseErr := parseScoreResponse(raw)
	if parseErr != nil {
		e.recordExtractionError("score_relevance", parseErr)
		return 0, false
	}
	return score, true
}

func (e *OpenAIExtractor) complete(ctx context.Context, prompt string) (string, *ExtractionError) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", &ExtractionError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseEndpointUnreachable,
		}
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &ExtractionError{
			Message: "completion has no content",
			Cause:   ErrCauseEmptyResponse,
		}
	}
	return resp.Choices[0].Message.Content, nil
}

func (e *OpenAIExtractor) recordExtractionError(action string, extractionErr *ExtractionError) {
	e.metadataSink.RecordError(
		time.Now(),
		"topics",
		action,
		mapExtractionErrorToMetadataCause(extractionErr),
		extractionErr.Message,
		nil,
	)
}
