package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/platform/gemini"
	"github.com/phrazzld/flashdeck-api/internal/platform/ollama"
	"github.com/phrazzld/flashdeck-api/internal/platform/postgres"
	"github.com/phrazzld/flashdeck-api/internal/service"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	deckStore        store.DeckStore
	cardStore        store.CardStore
	studyStore       store.StudyStore
	challengeStore   store.ChallengeStore
	leaderboardStore store.LeaderboardStore

	jwtService         auth.JWTService
	generator          generation.TextGenerator
	deckService        service.DeckService
	cardService        service.CardService
	studyService       service.StudyService
	leaderboardService service.LeaderboardService
	challengeService   service.ChallengeService
	generationService  service.GenerationService
	templateService    service.TemplateService
}

// newApplication wires stores and services on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.deckStore = postgres.NewPostgresDeckStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.studyStore = postgres.NewPostgresStudyStore(db, logger)
	app.challengeStore = postgres.NewPostgresChallengeStore(db, logger)
	app.leaderboardStore = postgres.NewPostgresLeaderboardStore(db, logger)

	var model string
	app.generator, model, err = newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized",
		slog.String("provider", cfg.LLM.Provider),
		slog.String("model", model))

	if app.deckService, err = service.NewDeckService(db, app.deckStore, app.cardStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}
	if app.cardService, err = service.NewCardService(db, app.deckStore, app.cardStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}
	app.studyService, err = service.NewStudyService(db, service.StudyStores{
		Decks:       app.deckStore,
		Cards:       app.cardStore,
		Sessions:    app.studyStore,
		Challenges:  app.challengeStore,
		Leaderboard: app.leaderboardStore,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}
	app.leaderboardService, err = service.NewLeaderboardService(
		app.deckStore, app.challengeStore, app.leaderboardStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard service: %w", err)
	}
	if app.challengeService, err = service.NewChallengeService(app.deckStore, app.challengeStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create challenge service: %w", err)
	}
	if app.generationService, err = service.NewGenerationService(app.generator, model, cfg.Cards, logger); err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}
	if app.templateService, err = service.NewTemplateService(app.deckStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create template service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// newGenerator builds the text generator for the configured provider and
// returns the model name used in user-facing errors.
func newGenerator(
	ctx context.Context,
	cfg config.LLMConfig,
	logger *slog.Logger,
) (generation.TextGenerator, string, error) {
	log := logger.With(slog.String("component", "llm_generator"))
	switch cfg.Provider {
	case "ollama":
		client, err := ollama.NewClient(cfg, log)
		if err != nil {
			return nil, "", err
		}
		return client, client.Model(), nil
	case "gemini":
		gen, err := gemini.NewGeminiGenerator(ctx, log, cfg)
		if err != nil {
			return nil, "", err
		}
		return gen, cfg.GeminiModel, nil
	default:
		return nil, "", fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	closeDB(app.db, app.logger)
	app.logger.Info("application shutdown completed")
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
