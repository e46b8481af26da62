package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a single card.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves cards in one statement. It should run inside a
	// transaction together with whatever created the deck.
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetForUser retrieves a card whose deck is owned by userID.
	// Returns ErrCardNotFound otherwise.
	GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns the deck's cards, newest first.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)

	// Update saves front, back and UpdatedAt.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card. Returns ErrCardNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore that runs its queries in tx.
	WithTx(tx *sql.Tx) CardStore
}
