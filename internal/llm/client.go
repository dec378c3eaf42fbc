// Package llm is a minimal client for an Ollama-style chat-completion
// endpoint: POST /api/chat with a message list, streaming disabled.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NoDataReply is substituted when the endpoint answers successfully but the
// reply carries no content. Downstream parsing runs on this fixed string
// instead of empty input.
const NoDataReply = "No data found for this issue."

const defaultTimeout = 60 * time.Second

// Message is one chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the wire format of the chat endpoint.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// chatResponse is the non-streaming reply envelope.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Client talks to a single model on a single endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient builds a client for the given endpoint and model name.
// A non-positive timeout falls back to the default.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Chat sends the message list and returns the reply text. Transport
// failures, non-2xx statuses and non-JSON payloads are returned as errors;
// an empty reply body is replaced with NoDataReply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return NoDataReply, nil
	}
	return content, nil
}
