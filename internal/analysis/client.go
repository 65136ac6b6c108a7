package analysis

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

	"parchive/internal/config"
	"parchive/internal/store"
)

const defaultHTTPTimeout = 30 * time.Second

// Client wraps a local OpenAI-compatible chat completion endpoint. Analysis
// is strictly best-effort: every caller must tolerate the endpoint being
// offline or disabled.
type Client struct {
	cfg        config.Analysis
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an analysis client from the configured endpoint.
func NewClient(cfg config.Analysis, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Enabled reports whether analysis is turned on in configuration.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled
}

// Available checks whether the model server answers a minimal completion.
func (c *Client) Available(ctx context.Context) bool {
	if !c.cfg.Enabled {
		return false
	}
	_, err := c.complete(ctx, "", "test")
	return err == nil
}

// AnalyzeShow asks the model for a short summary of the show built from its
// stored metadata.
func (c *Client) AnalyzeShow(ctx context.Context, show *store.Show) (string, error) {
	if show == nil {
		return "", errors.New("analyze show: nil show")
	}
	return c.complete(ctx, showSystemPrompt, showPrompt(show))
}

// AnalyzeEpisode asks the model for a short summary of the episode.
func (c *Client) AnalyzeEpisode(ctx context.Context, episode *store.Episode, showName string) (string, error) {
	if episode == nil {
		return "", errors.New("analyze episode: nil episode")
	}
	return c.complete(ctx, episodeSystemPrompt, episodePrompt(episode, showName))
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.cfg.Enabled {
		return "", errors.New("analysis: disabled in configuration")
	}

	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	payload := chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: 0.7,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("analysis request: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("analysis request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("analysis request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analysis request: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("analysis request: decode response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("analysis request: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("analysis request: empty choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("analysis request: empty content")
	}
	return content, nil
}
