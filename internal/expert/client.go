// Package expert is the outbound chat-completion client behind the
// free-form Q&A view. The remote model is an opaque collaborator: prompt
// text in, reply text out, or an error the caller surfaces to the user.
// Failed requests are never retried automatically.
package expert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNotConfigured = errors.New("chat API key not configured")
	ErrEmptyReply    = errors.New("chat API returned no choices")
)

// SystemPrompt frames the assistant for grid operations questions.
const SystemPrompt = "You are a power-grid operations expert assisting substation " +
	"maintenance staff. Answer concisely and ground every answer in the " +
	"system data provided."

type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	model    string
}

// New builds a client with an explicit request timeout; the underlying
// HTTP defaults are not relied on.
func New(endpoint, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		http:     resty.New().SetTimeout(timeout),
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask sends the user's question with a system prompt and a data-context
// system message carrying the serialized system snapshot, and returns the
// single free-text reply. Non-2xx and parse failures come back as errors.
func (c *Client) Ask(ctx context.Context, contextData, userQuery string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	req := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: SystemPrompt},
			{Role: "system", Content: "Current power system data, answer from it:\n" + contextData},
			{Role: "user", Content: userQuery},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("chat API request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat API status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return out.Choices[0].Message.Content, nil
}
