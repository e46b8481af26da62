package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// ChallengeHandler handles challenge HTTP requests.
type ChallengeHandler struct {
	challenges service.ChallengeService
	logger     *slog.Logger
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challenges service.ChallengeService, logger *slog.Logger) *ChallengeHandler {
	if challenges == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("challenge service and logger are required for ChallengeHandler")
	}
	return &ChallengeHandler{
		challenges: challenges,
		logger:     logger.With(slog.String("component", "challenge_handler")),
	}
}

// List handles GET /api/challenges.
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	challenges, err := h.challenges.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list challenges")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, challenges)
}

// Create handles POST /api/challenges.
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateChallengeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	challenge, err := h.challenges.Create(r.Context(), userID, req.DeckID, req.ChallengedID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create challenge")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, challenge)
}

// Decline handles POST /api/challenges/{challengeID}/decline.
func (h *ChallengeHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID, challengeID, ok := requireUserAndPathUUID(w, r, "challengeID")
	if !ok {
		return
	}
	if err := h.challenges.Decline(r.Context(), userID, challengeID); err != nil {
		HandleAPIError(w, r, err, "Failed to decline challenge")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
