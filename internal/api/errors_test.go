package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/service"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	generationErr := func(err error) error {
		return service.NewServiceError("generation", "generate", generation.UserMessage(err, "llama3.2"), err)
	}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"deck not found", fmt.Errorf("get: %w", store.ErrDeckNotFound), http.StatusNotFound, "Deck not found"},
		{"card not found", store.ErrCardNotFound, http.StatusNotFound, "Card not found"},
		{"challenge not found", store.ErrChallengeNotFound, http.StatusNotFound, "Challenge not found"},
		{"duplicate", store.ErrDuplicate, http.StatusConflict, "Already exists"},
		{"challenge closed", domain.ErrChallengeClosed, http.StatusConflict, "Challenge is no longer open"},
		{"not a participant", domain.ErrNotChallengeParticipant, http.StatusForbidden, "You are not part of this challenge"},
		{"nothing parsed", service.ErrNoCardsParsed, http.StatusUnprocessableEntity, service.ErrNoCardsParsed.Error()},
		{"deck validation", domain.ErrDeckNameInvalid, http.StatusBadRequest, "Deck name must be 1-255 characters"},
		{"too few cards", domain.ErrTooFewCards, http.StatusBadRequest, "Test mode needs at least 4 cards"},
		{"empty card text", service.ErrEmptyCardText, http.StatusBadRequest, "Card text cannot be empty after normalization"},
		{"invalid id", fmt.Errorf("%w: deckID has invalid format", domain.ErrInvalidID), http.StatusBadRequest, "Invalid ID"},
		{"constraint", store.ErrInvalidEntity, http.StatusBadRequest, "Invalid entity data"},
		{
			"generation request",
			fmt.Errorf("%w: description must be at least 3 characters", generation.ErrInvalidRequest),
			http.StatusBadRequest,
			"invalid generation request: description must be at least 3 characters",
		},
		{"generation timeout", generationErr(generation.ErrTimeout), http.StatusGatewayTimeout, "AI generation timed out. Try fewer cards or try again later."},
		{"model missing", generationErr(generation.ErrModelNotFound), http.StatusServiceUnavailable, "Model llama3.2 not found. Install it by running: ollama pull llama3.2"},
		{"ollama down", generationErr(generation.ErrUnavailable), http.StatusServiceUnavailable, ""},
		{"content blocked", generationErr(generation.ErrContentBlocked), http.StatusUnprocessableEntity, "The AI provider declined to generate cards for this description."},
		{"bad model output", generationErr(generation.ErrInvalidResponse), http.StatusBadGateway, "AI generation failed. Please try again."},
		{"service failure", service.NewServiceError("deck", "create", "failed to create deck", errors.New("conn reset")), http.StatusInternalServerError, "failed to create deck"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantStatus, MapErrorToStatusCode(tt.err))
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, GetSafeErrorMessage(tt.err))
			}
		})
	}
}

func TestGetSafeErrorMessage_NeverLeaksInternals(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("query failed: postgres://flash:hunter2@db/flash: %w", errors.New("conn refused"))
	msg := GetSafeErrorMessage(err)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  any
		want string
	}{
		{"missing name", CreateDeckRequest{}, "Invalid Name: required field"},
		{"bad mode", SubmitSessionRequest{Mode: "cram"}, "Invalid Mode: invalid value"},
		{"count too large", GenerateRequest{Description: "dutch", Count: 500}, "Invalid Count: too long or too large"},
		{"missing deck", CreateChallengeRequest{ChallengedID: "bob"}, "Invalid DeckID: required field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := shared.ValidateRequest(tt.req)
			assert.Equal(t, tt.want, SanitizeValidationError(err))
		})
	}

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
