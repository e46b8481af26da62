package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// StudyHandler handles quizzes, session submissions and study statistics.
type StudyHandler struct {
	study  service.StudyService
	logger *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(study service.StudyService, logger *slog.Logger) *StudyHandler {
	if study == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("study service and logger are required for StudyHandler")
	}
	return &StudyHandler{study: study, logger: logger.With(slog.String("component", "study_handler"))}
}

// Quiz handles GET /api/decks/{deckID}/quiz. Questions are shuffled unless
// shuffle=false is given.
func (h *StudyHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	quiz, err := h.study.BuildQuiz(r.Context(), userID, deckID, queryBool(r, "shuffle", true))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, quiz)
}

// SubmitSession handles POST /api/decks/{deckID}/sessions.
func (h *StudyHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	var req SubmitSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := h.study.SubmitSession(r.Context(), userID, deckID, service.SessionSubmission{
		Mode:        req.Mode,
		Answers:     req.Answers,
		Results:     req.Results,
		ChallengeID: req.ChallengeID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, outcome)
}

// Statistics handles GET /api/decks/{deckID}/statistics.
func (h *StudyHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	stats, err := h.study.DeckStatistics(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// RecentSessions handles GET /api/sessions?limit=N.
func (h *StudyHandler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultRecentSessions)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	sessions, err := h.study.RecentSessions(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load sessions")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}
