// Package assistant talks to an OpenAI-compatible chat completion endpoint
// for the in-app coach.
package assistant

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

	"levelup/internal/models"
)

// FallbackReply is returned whenever the model cannot be reached.
const FallbackReply = "I'm having trouble connecting right now, but keep up the great work! " +
	"Stay consistent with your scans and workouts, drink plenty of water, and check back with me soon."

// SystemPrompt frames every conversation.
const SystemPrompt = "You are LevelUp Coach, a friendly fitness, nutrition and skincare assistant. " +
	"Give short, practical, encouraging advice. Do not give medical diagnoses."

// ErrNotConfigured is returned by clients without an API key.
var ErrNotConfigured = errors.New("assistant: no API key configured")

// Client generates the next assistant turn for a conversation.
type Client interface {
	GenerateReply(ctx context.Context, history []models.AssistantMessage) (string, error)
}

// Config configures an HTTPClient.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPClient calls POST {BaseURL}/chat/completions.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient returns a client with cfg.Timeout applied to every call.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPClient{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
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
}

func (c *HTTPClient) GenerateReply(ctx context.Context, history []models.AssistantMessage) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	msgs := make([]chatMessage, 0, len(history)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: SystemPrompt})
	for _, m := range history {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(chatRequest{Model: c.cfg.Model, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("chat response: no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
