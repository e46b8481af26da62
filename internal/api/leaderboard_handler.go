package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// LeaderboardHandler serves deck and global leaderboards.
type LeaderboardHandler struct {
	leaderboards service.LeaderboardService
	logger       *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboards service.LeaderboardService, logger *slog.Logger) *LeaderboardHandler {
	if leaderboards == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("leaderboard service and logger are required for LeaderboardHandler")
	}
	return &LeaderboardHandler{
		leaderboards: leaderboards,
		logger:       logger.With(slog.String("component", "leaderboard_handler")),
	}
}

// Deck handles GET /api/decks/{deckID}/leaderboard?limit=N.
func (h *LeaderboardHandler) Deck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultLeaderboardLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	view, err := h.leaderboards.Deck(r.Context(), userID, deckID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load leaderboard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Overview handles GET /api/leaderboards.
func (h *LeaderboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	boards, err := h.leaderboards.Overview(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load leaderboards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, boards)
}
