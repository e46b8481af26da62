package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/flashdeck-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
var (
	// ErrNoCardsParsed indicates that text was supplied but no card could be read from it.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrNoCardsParsed = errors.New(`no valid cards could be parsed from the text. Expected format: "front | back" on separate lines`)

	// ErrEmptyCardText indicates a card side became empty after normalization.
	ErrEmptyCardText = fmt.Errorf("%w: card text cannot be empty after normalization", domain.ErrValidation)

	// ErrCardsTextRequired indicates bulk import text is missing or too short.
	ErrCardsTextRequired = fmt.Errorf("%w: cards text must be provided", domain.ErrValidation)

	// ErrEmptySession indicates a study session was submitted without results.
	ErrEmptySession = fmt.Errorf("%w: at least one card result is required", domain.ErrValidation)

	// ErrUnknownCard indicates a study result refers to a card outside the deck.
	ErrUnknownCard = fmt.Errorf("%w: card does not belong to this deck", domain.ErrValidation)

	// ErrDuplicateResult indicates the same card was graded twice in one session.
	ErrDuplicateResult = fmt.Errorf("%w: card graded more than once", domain.ErrValidation)

	// ErrChallengeDeckMismatch indicates a session was submitted against a
	// challenge for a different deck or in flip mode.
	ErrChallengeDeckMismatch = fmt.Errorf("%w: challenge results need a test session on the challenge deck", domain.ErrValidation)
)

// ServiceError is returned when an operation fails for an unexpected reason.
// Message is safe to show to end users.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
