// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/specialistvlad/contentgrid/internal/ctxlog"
	"resty.dev/v3"
)

// APIKeyEnv is the environment variable the CLI reads the API key from.
const APIKeyEnv = "CONTENTGRID_API_KEY"

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	// BaseURL of an OpenAI-compatible API, e.g. https://api.openai.com/v1.
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
	// MaxRetries bounds the retries of transient failures (429, 5xx, transport).
	MaxRetries uint64
	// InitialInterval is the first backoff delay. Defaults to 500ms.
	InitialInterval time.Duration
}

// HTTPClient talks to an OpenAI-compatible /chat/completions endpoint.
type HTTPClient struct {
	client *resty.Client
	cfg    HTTPConfig
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHTTPClient validates cfg and creates a client.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("completion base URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("completion model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	return &HTTPClient{client: client, cfg: cfg}, nil
}

// Complete sends the prompt as a single user message and returns the content
// of the first choice.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("model", c.cfg.Model)

	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %w", ErrCompletion, err)
	}

	var text string
	attempt := 0
	op := func() error {
		attempt++
		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(body).
			Post("/chat/completions")
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			logger.Warn("Completion request failed, will retry.", "attempt", attempt, "error", err)
			return err
		}
		if resp.IsError() {
			err := fmt.Errorf("status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
			if retryable(resp.StatusCode()) {
				logger.Warn("Completion service returned a transient error, will retry.", "attempt", attempt, "status", resp.StatusCode())
				return err
			}
			return backoff.Permanent(err)
		}

		var parsed chatResponse
		if err := json.Unmarshal(resp.Bytes(), &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		if parsed.Error != nil {
			return backoff.Permanent(errors.New(parsed.Error.Message))
		}
		if len(parsed.Choices) == 0 {
			return backoff.Permanent(errors.New("response contained no choices"))
		}
		text = parsed.Choices[0].Message.Content
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.MaxRetries), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	logger.Debug("Completion received.", "attempts", attempt, "chars", len(text))
	return text, nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	return c.client.Close()
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
