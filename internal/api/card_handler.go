package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// CardHandler handles card HTTP requests, including the public parse preview.
type CardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards service.CardService, logger *slog.Logger) *CardHandler {
	if cards == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("card service and logger are required for CardHandler")
	}
	return &CardHandler{cards: cards, logger: logger.With(slog.String("component", "card_handler"))}
}

// ParsePreview handles POST /api/cards/parse. It needs no authentication and
// stores nothing.
func (h *CardHandler) ParsePreview(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.cards.PreviewParse(req.Text, req.PreserveCase))
}

// CreateCard handles POST /api/decks/{deckID}/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	card, err := h.cards.CreateCard(r.Context(), userID, deckID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// BulkCreate handles POST /api/decks/{deckID}/cards/bulk.
func (h *CardHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	var req BulkCardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	cards, err := h.cards.BulkCreate(r.Context(), userID, deckID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import cards")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("cards imported",
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, BulkCardsResponse{
		Cards:   cards,
		Count:   len(cards),
		Message: fmt.Sprintf("%d cards added", len(cards)),
	})
}

// UpdateCard handles PUT /api/decks/{deckID}/cards/{cardID}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	card, err := h.cards.UpdateCard(r.Context(), userID, deckID, cardID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /api/decks/{deckID}/cards/{cardID}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.cards.DeleteCard(r.Context(), userID, deckID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
