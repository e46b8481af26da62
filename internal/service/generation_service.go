package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/cardtext"
	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
)

// GenerationResult is the raw model output and the cards read from it.
type GenerationResult struct {
	Text  string          `json:"text"`
	Cards []cardtext.Card `json:"cards"`
	Count int             `json:"count"`
}

// GenerationService drafts cards with a language model. Nothing is stored;
// the caller reviews the preview and creates a deck from it.
type GenerationService interface {
	Generate(ctx context.Context, userID, description string, count int) (*GenerationResult, error)
}

type generationServiceImpl struct {
	generator generation.TextGenerator
	model     string
	cards     config.CardsConfig
	logger    *slog.Logger
}

// NewGenerationService creates a new GenerationService. model is used in
// user-facing error messages.
func NewGenerationService(
	generator generation.TextGenerator,
	model string,
	cards config.CardsConfig,
	logger *slog.Logger,
) (GenerationService, error) {
	if generator == nil {
		return nil, errors.New("generation service requires a text generator")
	}
	if cards.MaxGenerated <= 0 {
		return nil, errors.New("generation service requires a positive card limit")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &generationServiceImpl{
		generator: generator,
		model:     model,
		cards:     cards,
		logger:    logger.With(slog.String("component", "generation_service")),
	}, nil
}

func (s *generationServiceImpl) Generate(
	ctx context.Context,
	userID, description string,
	count int,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if count == 0 {
		count = s.cards.DefaultGenerated
	}
	req := generation.Request{Description: description, Count: count}
	if err := generation.Validate(req, s.cards.MaxGenerated); err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := s.generator.GenerateText(ctx, req)
	if err != nil {
		log.Error("card generation failed",
			slog.String("user_id", userID),
			slog.Int("count", count),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("generation", "generate", generation.UserMessage(err, s.model), err)
	}

	cards := cardtext.Parse(text, cardtext.Options{
		Lenient:         true,
		FilterMetaWords: true,
		MaxCards:        count,
	})
	log.Info("cards generated",
		slog.String("user_id", userID),
		slog.Int("requested", count),
		slog.Int("parsed", len(cards)),
		slog.Duration("elapsed", time.Since(start)))

	if len(cards) == 0 {
		return nil, ErrNoCardsParsed
	}
	return &GenerationResult{Text: text, Cards: cards, Count: len(cards)}, nil
}
