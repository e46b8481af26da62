package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
)

// contentGenerator is the part of the genai client the generator uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements generation.TextGenerator using the Gemini API.
type GeminiGenerator struct {
	logger     *slog.Logger
	config     config.LLMConfig
	models     contentGenerator
	baseDelay  time.Duration
	maxRetries int
}

var _ generation.TextGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by a genai client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models)
}

func newGenerator(log *slog.Logger, cfg config.LLMConfig, models contentGenerator) (*GeminiGenerator, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.GeminiModel == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	g := &GeminiGenerator{
		logger:     log.With(slog.String("component", "gemini_generator")),
		config:     cfg,
		models:     models,
		baseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		maxRetries: cfg.MaxRetries,
	}
	if g.maxRetries < 0 {
		g.maxRetries = 0
	}
	return g, nil
}

// GenerateText implements generation.TextGenerator.
func (g *GeminiGenerator) GenerateText(ctx context.Context, req generation.Request) (string, error) {
	if g.config.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(g.config.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	return g.callWithRetry(ctx, generation.BuildPrompt(req.Description, req.Count))
}

func (g *GeminiGenerator) generationConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.config.Temperature),
	}
	if g.config.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(min(g.config.MaxTokens, math.MaxInt32))
	}
	return cfg
}

// callWithRetry calls the API up to maxRetries+1 times. Only transient
// failures are retried. The delay is baseDelay * 2^attempt scaled by a
// jitter factor in [0.5, 1.0).
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	for attempt := 0; ; attempt++ {
		log.Info("making Gemini API call",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", g.maxRetries+1))

		resp, err := g.models.GenerateContent(ctx, g.config.GeminiModel, genai.Text(prompt), g.generationConfig())
		if err == nil {
			text, rerr := extractText(resp)
			if rerr == nil {
				log.Info("Gemini API call successful", slog.Int("attempt", attempt+1))
				return text, nil
			}
			log.Warn("permanent error occurred, not retrying", slog.String("error", rerr.Error()))
			return "", rerr
		}

		err = classifyError(ctx, err)
		log.Error("Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", redact.Error(err)))

		if !errors.Is(err, generation.ErrTransientFailure) {
			return "", err
		}
		if attempt >= g.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)", err, g.maxRetries)
		}

		delay := backoff(g.baseDelay, attempt)
		log.Info("retrying after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("%w: %v", generation.ErrTimeout, ctx.Err())
		}
	}
}

func backoff(base time.Duration, attempt int) time.Duration {
	d := float64(base) * math.Pow(2, float64(attempt))
	return time.Duration(d * (0.5 + rand.Float64()*0.5))
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	switch reason := resp.Candidates[0].FinishReason; reason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, reason)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return text, nil
}

func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrTimeout, err)
	}

	code := 0
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}

	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %v", generation.ErrModelNotFound, err)
	case code == http.StatusBadRequest || code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	default:
		// Rate limits, server errors and network failures are worth retrying.
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
}
