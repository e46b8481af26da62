package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
)

// maxErrorBody caps how much of an error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// Client talks to one or more Ollama servers.
type Client struct {
	targets     []Target
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	http        *http.Client
	logger      *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTargets overrides the targets derived from configuration.
func WithTargets(targets ...Target) Option {
	return func(c *Client) { c.targets = targets }
}

var _ generation.TextGenerator = (*Client)(nil)

// NewClient builds a client from the LLM configuration.
func NewClient(cfg config.LLMConfig, log *slog.Logger, opts ...Option) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.OllamaModel == "" {
		return nil, fmt.Errorf("%w: ollama model cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", generation.ErrInvalidConfig)
	}

	c := &Client{
		targets:     Targets(cfg.OllamaEndpoints, cfg.APIKey),
		apiKey:      cfg.APIKey,
		model:       cfg.OllamaModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		http:        &http.Client{},
		logger:      log.With(slog.String("component", "ollama_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.targets) == 0 {
		return nil, fmt.Errorf("%w: at least one ollama endpoint is required", generation.ErrInvalidConfig)
	}
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateText implements generation.TextGenerator.
func (c *Client) GenerateText(ctx context.Context, req generation.Request) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: generation.BuildPrompt(req.Description, req.Count),
		Options: generateOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", body, &out); err != nil {
		return "", err
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("%w: model %s returned no text", generation.ErrInvalidResponse, c.model)
	}
	return text, nil
}

// InstalledModel describes a model as reported by /api/tags.
type InstalledModel struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type tagsResponse struct {
	Models []InstalledModel `json:"models"`
}

// ListModels returns the models installed on the first reachable target.
func (c *Client) ListModels(ctx context.Context) ([]InstalledModel, error) {
	var out tagsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// HasModel reports whether the configured model is installed. A name without
// a tag matches any tag of that model.
func (c *Client) HasModel(ctx context.Context) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	want := c.model
	base, _, tagged := strings.Cut(want, ":")
	for _, m := range models {
		if m.Name == want {
			return true, nil
		}
		if !tagged {
			if name, _, _ := strings.Cut(m.Name, ":"); name == base {
				return true, nil
			}
		}
	}
	return false, nil
}

// do walks the targets until one succeeds. All attempts share the client timeout.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	errs := make([]error, 0, len(c.targets))
	for i, target := range c.targets {
		start := time.Now()
		err := c.attempt(ctx, target, method, path, body, out)
		if err == nil {
			log.Debug("ollama request succeeded",
				slog.String("target", target.String()),
				slog.String("path", path),
				slog.Int("attempt", i+1),
				slog.Duration("elapsed", time.Since(start)))
			return nil
		}

		log.Warn("ollama request failed",
			slog.String("target", target.String()),
			slog.String("path", path),
			slog.Int("attempt", i+1),
			slog.String("error", redact.Error(err)))
		errs = append(errs, fmt.Errorf("%s: %w", target, err))

		if errors.Is(err, generation.ErrTimeout) || ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("ollama request to %s failed after %d attempt(s): %w",
		path, len(errs), errors.Join(errs...))
}

func (c *Client) attempt(ctx context.Context, target Target, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.Endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	target.authorize(req, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return classifyStatus(resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return classifyTransportError(ctx, err)
		}
		return fmt.Errorf("%w: failed to decode response: %v", generation.ErrInvalidResponse, err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", generation.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: connection refused: %v", generation.ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", generation.ErrUnavailable, err)
	}
}

func classifyStatus(status int, body string) error {
	lower := strings.ToLower(body)
	switch {
	case status == http.StatusNotFound || strings.Contains(lower, "model") && strings.Contains(lower, "not found"):
		return fmt.Errorf("%w: status %d: %s", generation.ErrModelNotFound, status, body)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d: %s", generation.ErrTimeout, status, body)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: unauthorized", generation.ErrUnavailable, status)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", generation.ErrTransientFailure, status, body)
	default:
		return fmt.Errorf("%w: status %d: %s", generation.ErrInvalidResponse, status, body)
	}
}
