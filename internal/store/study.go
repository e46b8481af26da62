package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
)

// StudyStore persists completed study sessions and their per-card results.
type StudyStore interface {
	// CreateSession saves a completed session.
	CreateSession(ctx context.Context, session *domain.StudySession) error

	// SaveResults saves per-card results. An empty slice is a no-op.
	SaveResults(ctx context.Context, results []domain.StudyResult) error

	// ListForUser returns the user's most recent sessions with deck names.
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.StudySession, error)

	// ListForDeck returns all of the user's sessions on a deck, most recent first.
	ListForDeck(ctx context.Context, userID string, deckID uuid.UUID) ([]domain.StudySession, error)

	// WithTx returns a StudyStore that runs its queries in tx.
	WithTx(tx *sql.Tx) StudyStore
}

// LeaderboardStore computes rankings over test-mode sessions. A user's score
// on a deck is their best session percentage.
type LeaderboardStore interface {
	// DeckLeaderboard returns the deck's users ordered by best score. A limit
	// of zero returns every user.
	DeckLeaderboard(ctx context.Context, deckID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error)

	// UserRank returns the user's position on the deck leaderboard.
	UserRank(ctx context.Context, userID string, deckID uuid.UUID) (domain.UserRank, error)

	// Global returns users ordered by average score across all decks.
	Global(ctx context.Context, limit int) ([]domain.GlobalLeaderboardEntry, error)

	// ActiveDecks returns the decks with the most test sessions. TopScores is
	// left empty.
	ActiveDecks(ctx context.Context, limit int) ([]domain.DeckLeaderboard, error)
}
