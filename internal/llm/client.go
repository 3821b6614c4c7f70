// Package llm wraps an OpenAI-compatible chat completion endpoint behind a
// small interface the analyzers can stub out in tests.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"ats-backend/pkg/httpclient"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
	ProviderNone   Provider = "none"
)

// Groq serves an OpenAI-compatible API under its own base URL.
const groqBaseURL = "https://api.groq.com/openai/v1"

type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a completion client for the configured provider.
// Returns nil for ProviderNone or a missing key; callers treat a nil
// client as "AI analysis unavailable".
func NewClient(provider Provider, apiKey, model string, timeout time.Duration) *Client {
	if provider == ProviderNone || provider == "" || apiKey == "" {
		return nil
	}

	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cfg := openai.DefaultConfig(apiKey)
	if provider == ProviderGroq {
		cfg.BaseURL = groqBaseURL
	}
	cfg.HTTPClient = httpclient.New(timeout)

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// Complete sends a system+user prompt pair and returns the raw model output.
// The request asks for JSON-object output mode and a low temperature so
// repeated calls on the same CV stay close to deterministic. The call is
// bounded by the client timeout unless the caller set a tighter deadline.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Model() string {
	return c.model
}
