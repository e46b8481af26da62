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

const deckColumns = `id, user_id, name, description, created_at, updated_at`

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decks (`+deckColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", redact.Error(err)),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	log.Debug("deck created", slog.String("deck_id", deck.ID.String()))
	return nil
}

// Get implements store.DeckStore.Get.
func (s *PostgresDeckStore) Get(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = $1`, id)
	return s.scanOne(ctx, row, id)
}

// GetForUser implements store.DeckStore.GetForUser.
func (s *PostgresDeckStore) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.Deck, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE id = $1 AND user_id = $2`, id, userID)
	return s.scanOne(ctx, row, id)
}

func (s *PostgresDeckStore) scanOne(ctx context.Context, row *sql.Row, id uuid.UUID) (*domain.Deck, error) {
	var d domain.Deck
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		err = notFoundAs(err, store.ErrDeckNotFound)
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get deck",
				slog.String("error", redact.Error(err)),
				slog.String("deck_id", id.String()))
		}
		return nil, err
	}
	return &d, nil
}

// ListForUser implements store.DeckStore.ListForUser.
func (s *PostgresDeckStore) ListForUser(ctx context.Context, userID string) ([]domain.Deck, error) {
	return s.list(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListRecentForUser implements store.DeckStore.ListRecentForUser.
func (s *PostgresDeckStore) ListRecentForUser(ctx context.Context, userID string, limit int) ([]domain.Deck, error) {
	return s.list(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2`,
		userID, limit)
}

func (s *PostgresDeckStore) list(ctx context.Context, query string, args ...any) ([]domain.Deck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list decks",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]domain.Deck, 0)
	for rows.Next() {
		var d domain.Deck
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		decks = append(decks, d)
	}
	return decks, MapError(rows.Err())
}

// Update implements store.DeckStore.Update.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE decks SET name = $1, description = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`,
		deck.Name, deck.Description, deck.UpdatedAt, deck.ID, deck.UserID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update deck",
			slog.String("error", redact.Error(err)),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// Delete implements store.DeckStore.Delete. Cards, sessions and challenges
// go with the deck through ON DELETE CASCADE.
func (s *PostgresDeckStore) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete deck",
			slog.String("error", redact.Error(err)),
			slog.String("deck_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}
