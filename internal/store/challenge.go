package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
)

// ChallengeStore defines the interface for challenge persistence.
type ChallengeStore interface {
	// Create saves a new challenge.
	Create(ctx context.Context, c *domain.Challenge) error

	// Get retrieves a challenge. Returns ErrChallengeNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)

	// GetForUpdate is Get with a row lock. It must run inside a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)

	// ListForUser returns challenges the user sent or received, newest first,
	// with deck names.
	ListForUser(ctx context.Context, userID string) ([]domain.Challenge, error)

	// Update saves scores, session IDs, status and completion time.
	Update(ctx context.Context, c *domain.Challenge) error

	// Decline marks a pending challenge addressed to userID as declined.
	// Returns ErrChallengeNotFound when there is no such pending challenge.
	Decline(ctx context.Context, id uuid.UUID, userID string) error

	// WithTx returns a ChallengeStore that runs its queries in tx.
	WithTx(tx *sql.Tx) ChallengeStore
}
