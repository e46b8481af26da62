package api

import (
	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// ParseRequest is the payload of the parse preview endpoint.
type ParseRequest struct {
	Text         string `json:"text"          validate:"max=100000"`
	PreserveCase bool   `json:"preserve_case"`
}

// CreateDeckRequest creates a deck, optionally with cards in "front | back" text.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	CardsText   string `json:"cards_text"  validate:"max=100000"`
}

// UpdateDeckRequest renames or re-describes a deck.
type UpdateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// CardRequest creates or replaces a single card.
type CardRequest struct {
	Front string `json:"front" validate:"required,max=5000"`
	Back  string `json:"back"  validate:"required,max=5000"`
}

// BulkCardsRequest imports cards from pasted text.
type BulkCardsRequest struct {
	Text string `json:"text" validate:"required,max=100000"`
}

// BulkCardsResponse reports the cards created by a bulk import.
type BulkCardsResponse struct {
	Cards   []domain.Card `json:"cards"`
	Count   int           `json:"count"`
	Message string        `json:"message"`
}

// SubmitSessionRequest is a finished study session. Test sessions send
// answers, flip sessions send self-graded results.
type SubmitSessionRequest struct {
	Mode        domain.StudyMode     `json:"mode"         validate:"required,oneof=flip test"`
	Answers     []service.Answer     `json:"answers"      validate:"max=1000,dive"`
	Results     []service.CardResult `json:"results"      validate:"max=1000,dive"`
	ChallengeID *uuid.UUID           `json:"challenge_id"`
}

// GenerateRequest asks the language model for cards.
type GenerateRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
	Count       int    `json:"count"       validate:"gte=0,lte=100"`
}

// CreateChallengeRequest challenges another user on a deck.
type CreateChallengeRequest struct {
	DeckID       uuid.UUID `json:"deck_id"       validate:"required"`
	ChallengedID string    `json:"challenged_id" validate:"required,max=255"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}
