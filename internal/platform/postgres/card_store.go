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

const (
	cardColumns = `id, deck_id, front, back, created_at, updated_at`

	// cardInsertBatch keeps multi-row inserts well below the 65535 bind
	// parameter limit.
	cardInsertBatch = 1000
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	return s.CreateMultiple(ctx, []*domain.Card{card})
}

// CreateMultiple implements store.CardStore.CreateMultiple.
// Cards are validated up front so nothing is written when any of them is invalid.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, c := range cards {
		if err := c.Validate(); err != nil {
			log.Warn("card validation failed during create",
				slog.String("error", err.Error()),
				slog.String("card_id", c.ID.String()))
			return err
		}
	}

	for start := 0; start < len(cards); start += cardInsertBatch {
		batch := cards[start:min(start+cardInsertBatch, len(cards))]
		query, args := buildCardInsert(batch)
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to create cards",
				slog.String("error", redact.Error(err)),
				slog.Int("batch_size", len(batch)))
			return MapError(err)
		}
	}

	log.Debug("cards created", slog.Int("count", len(cards)))
	return nil
}

func buildCardInsert(cards []*domain.Card) (string, []any) {
	const perRow = 6
	var b strings.Builder
	b.WriteString(`INSERT INTO cards (` + cardColumns + `) VALUES `)
	args := make([]any, 0, len(cards)*perRow)
	for i, c := range cards {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * perRow
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, c.ID, c.DeckID, c.Front, c.Back, c.CreatedAt, c.UpdatedAt)
	}
	return b.String(), args
}

// GetForUser implements store.CardStore.GetForUser.
func (s *PostgresCardStore) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.Card, error) {
	var c domain.Card
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.deck_id, c.front, c.back, c.created_at, c.updated_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE c.id = $1 AND d.user_id = $2`, id, userID,
	).Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		err = notFoundAs(err, store.ErrCardNotFound)
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
				slog.String("error", redact.Error(err)),
				slog.String("card_id", id.String()))
		}
		return nil, err
	}
	return &c, nil
}

// ListByDeck implements store.CardStore.ListByDeck.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE deck_id = $1 ORDER BY created_at DESC, id`, deckID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cards",
			slog.String("error", redact.Error(err)),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]domain.Card, 0)
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, c)
	}
	return cards, MapError(rows.Err())
}

// Update implements store.CardStore.Update.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET front = $1, back = $2, updated_at = $3 WHERE id = $4`,
		card.Front, card.Back, card.UpdatedAt, card.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update card",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete card",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}
