package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/flashdeck-api/internal/api/middleware"
	"github.com/phrazzld/flashdeck-api/internal/api/shared"
)

// healthTimeout bounds the database ping behind GET /health.
const healthTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups every handler served by the router.
type Handlers struct {
	Decks        *DeckHandler
	Cards        *CardHandler
	Study        *StudyHandler
	Leaderboards *LeaderboardHandler
	Challenges   *ChallengeHandler
	Generation   *GenerationHandler
}

// NewRouter builds the chi router with the standard middleware stack. All
// /api routes except the parse preview require authentication.
func NewRouter(h Handlers, auth *middleware.AuthMiddleware, db Pinger, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewTraceMiddleware(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(db))

	r.Route("/api", func(r chi.Router) {
		r.Post("/cards/parse", h.Cards.ParsePreview)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/decks", h.Decks.ListDecks)
			r.Post("/decks", h.Decks.CreateDeck)
			r.Route("/decks/{deckID}", func(r chi.Router) {
				r.Get("/", h.Decks.GetDeck)
				r.Put("/", h.Decks.UpdateDeck)
				r.Delete("/", h.Decks.DeleteDeck)

				r.Post("/cards", h.Cards.CreateCard)
				r.Post("/cards/bulk", h.Cards.BulkCreate)
				r.Put("/cards/{cardID}", h.Cards.UpdateCard)
				r.Delete("/cards/{cardID}", h.Cards.DeleteCard)

				r.Get("/quiz", h.Study.Quiz)
				r.Post("/sessions", h.Study.SubmitSession)
				r.Get("/statistics", h.Study.Statistics)
				r.Get("/leaderboard", h.Leaderboards.Deck)
			})

			r.Get("/sessions", h.Study.RecentSessions)
			r.Get("/leaderboards", h.Leaderboards.Overview)

			r.Post("/generate", h.Generation.Generate)
			r.Get("/templates", h.Generation.Templates)

			r.Get("/challenges", h.Challenges.List)
			r.Post("/challenges", h.Challenges.Create)
			r.Post("/challenges/{challengeID}/decline", h.Challenges.Decline)
		})
	})

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable",
					fmt.Errorf("ping database: %w", err))
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
