// Package llm lets the companion speak through a local Ollama model.
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

	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when the model answers with nothing.
var ErrEmptyResponse = errors.New("empty model response")

// Client talks to Ollama's HTTP API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        *zap.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string        // default http://localhost:11434
	Model   string        // default llama3.2:3b
	Timeout time.Duration // default 60s
	Logger  *zap.Logger
}

// DefaultConfig returns defaults for a local Ollama.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:11434",
		Model:   "llama3.2:3b",
		Timeout: 60 * time.Second,
	}
}

// NewClient creates a client. Zero fields take their defaults.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	log := zap.NewNop()
	if cfg.Logger != nil {
		log = cfg.Logger.Named("llm")
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// generateResponse is the non-streaming answer of /api/generate.
type generateResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
}

const (
	temperature = 0.9
	maxTokens   = 120
)

// Generate asks the model to continue prompt under the given system text.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, system, prompt, false)
}

// GenerateJSON is Generate with the model constrained to JSON output.
func (c *Client) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, system, prompt, true)
}

func (c *Client) generate(ctx context.Context, system, prompt string, jsonFormat bool) (string, error) {
	reqBody := generateRequest{
		Model:   c.model,
		System:  system,
		Prompt:  prompt,
		Options: generateOptions{Temperature: temperature, NumPredict: maxTokens},
	}
	if jsonFormat {
		reqBody.Format = "json"
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	c.log.Debug("model answered",
		zap.String("model", c.model),
		zap.Bool("json", jsonFormat),
		zap.Duration("took", time.Since(start)),
		zap.String("done_reason", result.DoneReason))

	text := strings.TrimSpace(result.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// tagsResponse is the answer of GET /api/tags.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (c *Client) tags(ctx context.Context) (tagsResponse, error) {
	var tags tagsResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return tags, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tags, fmt.Errorf("connecting to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tags, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return tags, fmt.Errorf("decoding response: %w", err)
	}
	return tags, nil
}

// Ping checks that the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.tags(ctx)
	return err
}

// CheckModel reports whether the configured model is installed, along with
// every installed model.
func (c *Client) CheckModel(ctx context.Context) (bool, []string, error) {
	tags, err := c.tags(ctx)
	if err != nil {
		return false, nil, err
	}

	var available []string
	found := false
	for _, m := range tags.Models {
		available = append(available, m.Name)
		if m.Name == c.model {
			found = true
		}
	}
	return found, available, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
