package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// Get retrieves a deck regardless of owner. Callers must establish access
	// some other way, e.g. through a challenge on the deck.
	// Returns ErrDeckNotFound if the deck does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// GetForUser retrieves a deck owned by userID.
	// Returns ErrDeckNotFound if it does not exist or belongs to someone else.
	GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.Deck, error)

	// ListForUser returns the user's decks, newest first.
	ListForUser(ctx context.Context, userID string) ([]domain.Deck, error)

	// ListRecentForUser returns at most limit of the user's most recently
	// updated decks.
	ListRecentForUser(ctx context.Context, userID string, limit int) ([]domain.Deck, error)

	// Update saves name, description and UpdatedAt of a deck owned by deck.UserID.
	// Returns ErrDeckNotFound if no such deck exists.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck owned by userID together with its cards, sessions
	// and challenges. Returns ErrDeckNotFound if no such deck exists.
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// WithTx returns a DeckStore that runs its queries in tx.
	WithTx(tx *sql.Tx) DeckStore
}
