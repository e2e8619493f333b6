// Package completion talks to the hosted chat-completion model.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/giygas/disease-dashboard/config"
	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/logging"
	"github.com/giygas/disease-dashboard/metrics"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no credential is configured
	ErrMissingAPIKey = errors.New("completion: missing API key")
	// ErrEmptyReply means the endpoint answered without any choice
	ErrEmptyReply = errors.New("completion: reply has no choices")
)

// Config carries everything the client needs; nothing is read from the
// process environment here
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	// HTTPClient defaults to a client without a timeout, so the caller's
	// context is the only deadline
	HTTPClient *http.Client
}

// Client sends one instruction per call as a system message
type Client struct {
	llm   llms.Model
	model string
}

// NewClient builds a client from cfg, filling in the default model and
// base URL
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithHTTPClient(cfg.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	return &Client{llm: llm, model: cfg.Model}, nil
}

// Model returns the model identifier every call uses
func (c *Client) Model() string {
	return c.model
}

// Complete sends instruction and returns the text of the first choice
// verbatim
func (c *Client) Complete(ctx context.Context, instruction string) (string, error) {
	start := time.Now()

	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instruction),
	})
	if err == nil && len(resp.Choices) == 0 {
		err = ErrEmptyReply
	}

	elapsed := time.Since(start)
	metrics.CompletionDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(metrics.CompletionError).Inc()
		logging.Warn("Completion request failed",
			"model", c.model,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return "", err
	}

	metrics.CompletionRequestsTotal.WithLabelValues(metrics.CompletionOK).Inc()

	reply := resp.Choices[0].Content
	logging.Debug("Completion received",
		"model", c.model,
		"duration_ms", elapsed.Milliseconds(),
		"reply_bytes", len(reply),
	)

	return reply, nil
}

// unconfigured stands in for a client when no credential was supplied
type unconfigured struct{}

func (unconfigured) Complete(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}

// Unconfigured returns a completer whose every call fails with
// ErrMissingAPIKey, so a server without a credential still starts and
// reports each submission as an upstream failure
func Unconfigured() interfaces.Completer {
	return unconfigured{}
}
