// Package openai backs the external capability ports (intent
// classification, purchase advisories, save analysis) with the OpenAI
// chat completion API, constrained to JSON output.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	api "github.com/sashabaranov/go-openai"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/pkg/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// defaultTimeout bounds every capability call. A timeout is reported as a
// plain error so callers take their documented fallback path.
const defaultTimeout = 30 * time.Second

// Client implements ports.Classifier, ports.Advisor and
// ports.SignalAnalyzer.
type Client struct {
	api     *api.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout overrides the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. An empty API key is a configuration error: the
// caller should leave the capability unwired and let consumers degrade.
func New(apiKey string, opts ...Option) (*Client, error) {
	return NewWithConfig(apiKey, "", opts...)
}

// NewWithConfig creates a Client with an optional base URL override.
func NewWithConfig(apiKey, baseURL string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w: no API key configured", domain.ErrCapabilityUnavailable)
	}
	cfg := api.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c := &Client{
		api:     api.NewClientWithConfig(cfg),
		model:   DefaultModel,
		timeout: defaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// complete sends one JSON-constrained chat completion and returns the raw
// message content.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, api.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		ResponseFormat: &api.ChatCompletionResponseFormat{
			Type: api.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []api.ChatCompletionMessage{
			{Role: api.ChatMessageRoleSystem, Content: system},
			{Role: api.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeJSON parses a completion payload, tolerating markdown code fences
// some models wrap around JSON despite instructions.
func decodeJSON(content string, out any) error {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), out); err != nil {
		return fmt.Errorf("parsing capability response: %w", err)
	}
	return nil
}
