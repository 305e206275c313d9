// Package completion is a REST client for the hosted text-generation service.
// One blocking request per call; failures are surfaced, never retried.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"intellibot/internal/domain"
)

// Config contains connection details for the completion backend.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the completion backend over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a completion client using the provided configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completeRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completeResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt to the given model and returns the generated text.
// Literal dollar signs in the output are escaped so markup renderers do not
// read them as template tokens.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	body := completeRequest{
		Model:    model,
		Messages: []message{{Role: "user", Content: prompt}},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", &domain.UpstreamError{Op: "complete", Err: err}
	}
	url := c.baseURL + "/api/v2/cortex/inference:complete"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", &domain.UpstreamError{Op: "complete", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Op: "complete", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return "", &domain.UpstreamError{
			Op:     "complete",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(payload))),
		}
	}

	var out completeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &domain.UpstreamError{Op: "complete", Err: err}
	}
	if len(out.Choices) == 0 {
		return "", &domain.UpstreamError{Op: "complete", Err: fmt.Errorf("no choices in response")}
	}
	return EscapeSigils(out.Choices[0].Message.Content), nil
}

// EscapeSigils escapes every literal dollar sign so downstream markup
// rendering does not interpret it as a templating token.
func EscapeSigils(text string) string {
	return strings.ReplaceAll(text, "$", `\$`)
}
