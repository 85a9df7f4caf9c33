// Package oracle wraps the text-generation service behind two calls: a
// plain completion that can fail, and a structured completion that never
// does.
package oracle

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
)

// Client is the completion boundary. Complete fails only once transport
// retries are exhausted.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	client     *openai.Client
	model      string
	maxRetries int
	maxTokens  int
	logger     *log.Logger

	// sleep is replaceable in tests.
	sleep func(time.Duration)
}

// NewOpenAIClient builds a client from the llm config section. apiKey
// comes from the environment, never from config files.
func NewOpenAIClient(cfg model.LLMConfig, apiKey string, logger *log.Logger) *OpenAIClient {
	oc := openai.DefaultConfig(apiKey)
	oc.BaseURL = cfg.BaseURL
	if cfg.TimeoutSec > 0 {
		oc.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second}
	}
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		maxTokens:  cfg.MaxTokens,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Complete sends one system+user exchange, retrying transport failures
// with exponential backoff before giving up.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			c.logf("llm_retry attempt=%d backoff=%s", attempt+1, backoff)
			c.sleep(backoff)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			c.logf("llm_request_failed attempt=%d error=%v", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty choices in completion response")
			continue
		}
		content := StripThinking(resp.Choices[0].Message.Content)
		c.logf("llm_response_received chars=%d", len(content))
		return content, nil
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *OpenAIClient) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

var thinkingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<thinking>.*?</thinking>`),
	regexp.MustCompile(`(?is)<think>.*?</think>`),
	regexp.MustCompile(`(?is)<thought>.*?</thought>`),
	regexp.MustCompile(`(?is)<reasoning>.*?</reasoning>`),
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// StripThinking removes chain-of-thought blocks some models interleave
// with their final answer.
func StripThinking(text string) string {
	result := text
	for _, p := range thinkingPatterns {
		result = p.ReplaceAllString(result, "")
	}
	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
