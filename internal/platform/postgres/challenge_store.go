package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/redact"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

const challengeColumns = `c.id, c.deck_id, d.name, c.challenger_id, c.challenged_id,
	c.challenger_score, c.challenged_score, c.challenger_session_id, c.challenged_session_id,
	c.status, c.created_at, c.completed_at`

// PostgresChallengeStore implements the store.ChallengeStore interface.
type PostgresChallengeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChallengeStore creates a new PostgreSQL implementation of the ChallengeStore interface.
func NewPostgresChallengeStore(db store.DBTX, logger *slog.Logger) *PostgresChallengeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresChallengeStore{
		db:     db,
		logger: logger.With(slog.String("component", "challenge_store")),
	}
}

var _ store.ChallengeStore = (*PostgresChallengeStore)(nil)

// WithTx implements store.ChallengeStore.WithTx.
func (s *PostgresChallengeStore) WithTx(tx *sql.Tx) store.ChallengeStore {
	return &PostgresChallengeStore{db: tx, logger: s.logger}
}

// Create implements store.ChallengeStore.Create.
func (s *PostgresChallengeStore) Create(ctx context.Context, c *domain.Challenge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO challenges (id, deck_id, challenger_id, challenged_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.DeckID, c.ChallengerID, c.ChallengedID, string(c.Status), c.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create challenge",
			slog.String("error", redact.Error(err)),
			slog.String("deck_id", c.DeckID.String()))
		return MapError(err)
	}
	return nil
}

// Get implements store.ChallengeStore.Get.
func (s *PostgresChallengeStore) Get(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	return s.get(ctx, id, "")
}

// GetForUpdate implements store.ChallengeStore.GetForUpdate.
func (s *PostgresChallengeStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	return s.get(ctx, id, " FOR UPDATE OF c")
}

func (s *PostgresChallengeStore) get(ctx context.Context, id uuid.UUID, lock string) (*domain.Challenge, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges c
		JOIN decks d ON d.id = c.deck_id
		WHERE c.id = $1`+lock, id)
	c, err := scanChallenge(row)
	if err != nil {
		err = notFoundAs(err, store.ErrChallengeNotFound)
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get challenge",
				slog.String("error", redact.Error(err)),
				slog.String("challenge_id", id.String()))
		}
		return nil, err
	}
	return c, nil
}

// ListForUser implements store.ChallengeStore.ListForUser.
func (s *PostgresChallengeStore) ListForUser(ctx context.Context, userID string) ([]domain.Challenge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges c
		JOIN decks d ON d.id = c.deck_id
		WHERE c.challenger_id = $1 OR c.challenged_id = $1
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list challenges",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	challenges := make([]domain.Challenge, 0)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, MapError(err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, MapError(rows.Err())
}

// Update implements store.ChallengeStore.Update.
func (s *PostgresChallengeStore) Update(ctx context.Context, c *domain.Challenge) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE challenges
		SET challenger_score = $1, challenged_score = $2,
		    challenger_session_id = $3, challenged_session_id = $4,
		    status = $5, completed_at = $6
		WHERE id = $7`,
		nullInt(c.ChallengerScore), nullInt(c.ChallengedScore),
		nullUUID(c.ChallengerSessionID), nullUUID(c.ChallengedSessionID),
		string(c.Status), c.CompletedAt, c.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update challenge",
			slog.String("error", redact.Error(err)),
			slog.String("challenge_id", c.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrChallengeNotFound)
}

// Decline implements store.ChallengeStore.Decline.
func (s *PostgresChallengeStore) Decline(ctx context.Context, id uuid.UUID, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE challenges SET status = 'declined'
		WHERE id = $1 AND challenged_id = $2 AND status = 'pending'`, id, userID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrChallengeNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (*domain.Challenge, error) {
	var (
		c                                    domain.Challenge
		status                               string
		challengerScore, challengedScore     sql.NullInt64
		challengerSession, challengedSession uuid.NullUUID
		completedAt                          sql.NullTime
	)
	err := row.Scan(&c.ID, &c.DeckID, &c.DeckName, &c.ChallengerID, &c.ChallengedID,
		&challengerScore, &challengedScore, &challengerSession, &challengedSession,
		&status, &c.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	c.Status = domain.ChallengeStatus(status)
	c.ChallengerScore = intPtr(challengerScore)
	c.ChallengedScore = intPtr(challengedScore)
	if challengerSession.Valid {
		c.ChallengerSessionID = &challengerSession.UUID
	}
	if challengedSession.Valid {
		c.ChallengedSessionID = &challengedSession.UUID
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return &c, nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullUUID(p *uuid.UUID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *p, Valid: true}
}
