// Package llm talks to the configured language-model chat provider and
// composes image-generation URLs. The provider speaks a minimal bespoke
// protocol: POST {"message": ...} and answer JSON with the reply text in one
// of a small set of known fields.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnparseable marks a 2xx upstream response whose body carried no reply
// text in any of the known fields. Callers treat it like a network failure.
var ErrUnparseable = errors.New("upstream response carries no reply text")

// ErrNotConfigured is returned when no provider endpoint is set.
var ErrNotConfigured = errors.New("chat provider is not configured")

// replyFields is the fixed priority order in which reply text is looked up
// in the upstream JSON. First non-empty wins; there is no silent coercion.
var replyFields = [...]string{"response", "message", "text", "content"}

// Client manages requests to the chat provider. The endpoint, credential and
// timeout are injected at construction so the gateway can be tested against a
// fake provider.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new chat provider client. An empty endpoint yields a
// client whose calls fail with ErrNotConfigured.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether a provider endpoint is set.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

type completionRequest struct {
	Message string `json:"message"`
}

// Complete sends the prompt to the provider and returns its raw reply text.
// Exactly one attempt is made; timeouts surface as ordinary errors.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	requestBody, err := json.Marshal(completionRequest{Message: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// The provider sits behind an ngrok tunnel; without this header it
	// answers with an HTML interstitial instead of JSON.
	req.Header.Set("ngrok-skip-browser-warning", "true")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("chat provider error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	return extractReply(body)
}

// extractReply pulls the reply text out of the upstream JSON, trying the
// known fields in a fixed order and finishing with the OpenAI-style
// choices[0].message.content path.
func extractReply(body []byte) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("chat provider response is not JSON: %w", err)
	}

	for _, field := range replyFields {
		raw, ok := payload[field]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && text != "" {
			return text, nil
		}
	}

	var openAIStyle struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &openAIStyle); err == nil &&
		len(openAIStyle.Choices) > 0 && openAIStyle.Choices[0].Message.Content != "" {
		return openAIStyle.Choices[0].Message.Content, nil
	}

	return "", ErrUnparseable
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
