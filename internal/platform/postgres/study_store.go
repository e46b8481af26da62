package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// PostgresStudyStore implements the store.StudyStore interface.
type PostgresStudyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudyStore creates a new PostgreSQL implementation of the StudyStore interface.
func NewPostgresStudyStore(db store.DBTX, logger *slog.Logger) *PostgresStudyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStudyStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_store")),
	}
}

var _ store.StudyStore = (*PostgresStudyStore)(nil)

// WithTx implements store.StudyStore.WithTx.
func (s *PostgresStudyStore) WithTx(tx *sql.Tx) store.StudyStore {
	return &PostgresStudyStore{db: tx, logger: s.logger}
}

// CreateSession implements store.StudyStore.CreateSession.
func (s *PostgresStudyStore) CreateSession(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_sessions (id, user_id, deck_id, mode, total_cards, correct_answers, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.DeckID, string(session.Mode),
		session.TotalCards, session.CorrectAnswers, session.CompletedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create study session",
			slog.String("error", redact.Error(err)),
			slog.String("deck_id", session.DeckID.String()))
		return MapError(err)
	}
	return nil
}

// SaveResults implements store.StudyStore.SaveResults.
func (s *PostgresStudyStore) SaveResults(ctx context.Context, results []domain.StudyResult) error {
	if len(results) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(`INSERT INTO study_results (session_id, card_id, is_correct) VALUES `)
	args := make([]any, 0, len(results)*3)
	for i, r := range results {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, r.SessionID, r.CardID, r.IsCorrect)
	}

	if _, err := s.db.ExecContext(ctx, b.String(), args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save study results",
			slog.String("error", redact.Error(err)),
			slog.Int("count", len(results)))
		return MapError(err)
	}
	return nil
}

// ListForUser implements store.StudyStore.ListForUser.
func (s *PostgresStudyStore) ListForUser(ctx context.Context, userID string, limit int) ([]domain.StudySession, error) {
	return s.list(ctx, `
		SELECT s.id, s.user_id, s.deck_id, d.name, s.mode, s.total_cards, s.correct_answers, s.completed_at
		FROM study_sessions s
		JOIN decks d ON d.id = s.deck_id
		WHERE s.user_id = $1
		ORDER BY s.completed_at DESC
		LIMIT $2`, userID, limit)
}

// ListForDeck implements store.StudyStore.ListForDeck.
func (s *PostgresStudyStore) ListForDeck(ctx context.Context, userID string, deckID uuid.UUID) ([]domain.StudySession, error) {
	return s.list(ctx, `
		SELECT s.id, s.user_id, s.deck_id, d.name, s.mode, s.total_cards, s.correct_answers, s.completed_at
		FROM study_sessions s
		JOIN decks d ON d.id = s.deck_id
		WHERE s.user_id = $1 AND s.deck_id = $2
		ORDER BY s.completed_at DESC`, userID, deckID)
}

func (s *PostgresStudyStore) list(ctx context.Context, query string, args ...any) ([]domain.StudySession, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list study sessions",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]domain.StudySession, 0)
	for rows.Next() {
		var (
			ss   domain.StudySession
			mode string
		)
		if err := rows.Scan(&ss.ID, &ss.UserID, &ss.DeckID, &ss.DeckName, &mode,
			&ss.TotalCards, &ss.CorrectAnswers, &ss.CompletedAt); err != nil {
			return nil, MapError(err)
		}
		ss.Mode = domain.StudyMode(mode)
		sessions = append(sessions, ss)
	}
	return sessions, MapError(rows.Err())
}
