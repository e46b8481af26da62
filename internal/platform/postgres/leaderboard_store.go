package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// sessionScore is one session's percentage; NULLIF keeps empty sessions out
// of MAX and AVG.
const sessionScore = `(correct_answers * 100.0) / NULLIF(total_cards, 0)`

// PostgresLeaderboardStore implements the store.LeaderboardStore interface.
// Rankings only consider test-mode sessions.
type PostgresLeaderboardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLeaderboardStore creates a new PostgreSQL implementation of the LeaderboardStore interface.
func NewPostgresLeaderboardStore(db store.DBTX, logger *slog.Logger) *PostgresLeaderboardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLeaderboardStore{
		db:     db,
		logger: logger.With(slog.String("component", "leaderboard_store")),
	}
}

var _ store.LeaderboardStore = (*PostgresLeaderboardStore)(nil)

// DeckLeaderboard implements store.LeaderboardStore.DeckLeaderboard.
// LIMIT NULL means no limit in PostgreSQL.
func (s *PostgresLeaderboardStore) DeckLeaderboard(
	ctx context.Context,
	deckID uuid.UUID,
	limit int,
) ([]domain.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id,
		       COALESCE(MAX(`+sessionScore+`), 0)::float8 AS best_score,
		       COUNT(*) AS total_sessions,
		       COALESCE(SUM(total_cards), 0)::bigint AS total_cards,
		       MAX(completed_at) AS last_studied
		FROM study_sessions
		WHERE deck_id = $1 AND mode = 'test'
		GROUP BY user_id
		ORDER BY best_score DESC, user_id
		LIMIT NULLIF($2, 0)`, deckID, limit)
	if err != nil {
		s.logFailure(ctx, "deck leaderboard", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.BestScore, &e.TotalSessions, &e.TotalCards, &e.LastStudied); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, e)
	}
	return entries, MapError(rows.Err())
}

// UserRank implements store.LeaderboardStore.UserRank.
func (s *PostgresLeaderboardStore) UserRank(ctx context.Context, userID string, deckID uuid.UUID) (domain.UserRank, error) {
	entries, err := s.DeckLeaderboard(ctx, deckID, 0)
	if err != nil {
		return domain.UserRank{}, err
	}
	return domain.RankOf(entries, userID), nil
}

// Global implements store.LeaderboardStore.Global.
func (s *PostgresLeaderboardStore) Global(ctx context.Context, limit int) ([]domain.GlobalLeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id,
		       COUNT(*) AS total_sessions,
		       COALESCE(SUM(total_cards), 0)::bigint AS total_cards,
		       COALESCE(SUM(correct_answers), 0)::bigint AS total_correct,
		       COALESCE(AVG(`+sessionScore+`), 0)::float8 AS average_score,
		       MAX(completed_at) AS last_studied
		FROM study_sessions
		WHERE mode = 'test'
		GROUP BY user_id
		ORDER BY average_score DESC, user_id
		LIMIT $1`, limit)
	if err != nil {
		s.logFailure(ctx, "global leaderboard", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]domain.GlobalLeaderboardEntry, 0)
	for rows.Next() {
		var e domain.GlobalLeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.TotalSessions, &e.TotalCards, &e.TotalCorrect,
			&e.AverageScore, &e.LastStudied); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, e)
	}
	return entries, MapError(rows.Err())
}

// ActiveDecks implements store.LeaderboardStore.ActiveDecks.
func (s *PostgresLeaderboardStore) ActiveDecks(ctx context.Context, limit int) ([]domain.DeckLeaderboard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.deck_id, d.name, COUNT(*) AS total_sessions, COUNT(DISTINCT s.user_id) AS unique_users
		FROM study_sessions s
		JOIN decks d ON d.id = s.deck_id
		WHERE s.mode = 'test'
		GROUP BY s.deck_id, d.name
		ORDER BY total_sessions DESC, s.deck_id
		LIMIT $1`, limit)
	if err != nil {
		s.logFailure(ctx, "active decks", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]domain.DeckLeaderboard, 0)
	for rows.Next() {
		var d domain.DeckLeaderboard
		if err := rows.Scan(&d.DeckID, &d.DeckName, &d.TotalSessions, &d.UniqueUsers); err != nil {
			return nil, MapError(err)
		}
		d.TopScores = []domain.LeaderboardEntry{}
		decks = append(decks, d)
	}
	return decks, MapError(rows.Err())
}

func (s *PostgresLeaderboardStore) logFailure(ctx context.Context, query string, err error) {
	logger.FromContextOrDefault(ctx, s.logger).Error("leaderboard query failed",
		slog.String("query", query),
		slog.String("error", redact.Error(err)))
}
