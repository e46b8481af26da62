package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/cardtext"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// DeckWithCards is a deck together with all of its cards.
type DeckWithCards struct {
	Deck  *domain.Deck  `json:"deck"`
	Cards []domain.Card `json:"cards"`
}

// DeckService manages a user's decks.
type DeckService interface {
	// CreateDeck creates the deck and, when cardsText is not blank, the cards
	// parsed from it, in a single transaction.
	CreateDeck(ctx context.Context, userID, name, description, cardsText string) (*DeckWithCards, error)

	// UpdateDeck renames or re-describes a deck the user owns.
	UpdateDeck(ctx context.Context, userID string, deckID uuid.UUID, name, description string) (*domain.Deck, error)

	// DeleteDeck removes a deck the user owns along with everything that references it.
	DeleteDeck(ctx context.Context, userID string, deckID uuid.UUID) error

	// ListDecks returns the user's decks, newest first.
	ListDecks(ctx context.Context, userID string) ([]domain.Deck, error)

	// GetDeckWithCards returns a deck the user owns and its cards.
	GetDeckWithCards(ctx context.Context, userID string, deckID uuid.UUID) (*DeckWithCards, error)
}

type deckServiceImpl struct {
	db     store.TxBeginner
	decks  store.DeckStore
	cards  store.CardStore
	logger *slog.Logger
}

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	db store.TxBeginner,
	decks store.DeckStore,
	cards store.CardStore,
	logger *slog.Logger,
) (DeckService, error) {
	if db == nil || decks == nil || cards == nil {
		return nil, errors.New("deck service requires a database, a deck store and a card store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &deckServiceImpl{
		db:     db,
		decks:  decks,
		cards:  cards,
		logger: logger.With(slog.String("component", "deck_service")),
	}, nil
}

func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID, name, description, cardsText string,
) (*DeckWithCards, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		return nil, err
	}

	var cards []*domain.Card
	if strings.TrimSpace(cardsText) != "" {
		cards = newCards(log, deck.ID, cardtext.ParseAndNormalize(cardsText))
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.decks.WithTx(tx).Create(ctx, deck); err != nil {
			return err
		}
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("failed to create deck",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, NewServiceError("deck", "create", "failed to create deck", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(cards)))
	return &DeckWithCards{Deck: deck, Cards: derefCards(cards)}, nil
}

func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	userID string,
	deckID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	deck, err := s.decks.GetForUser(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if err := deck.Update(name, description); err != nil {
		return nil, err
	}
	if err := s.decks.Update(ctx, deck); err != nil {
		return nil, NewServiceError("deck", "update", "failed to update deck", err)
	}
	return deck, nil
}

func (s *deckServiceImpl) DeleteDeck(ctx context.Context, userID string, deckID uuid.UUID) error {
	if err := s.decks.Delete(ctx, userID, deckID); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("deck deleted", slog.String("deck_id", deckID.String()))
	return nil
}

func (s *deckServiceImpl) ListDecks(ctx context.Context, userID string) ([]domain.Deck, error) {
	return s.decks.ListForUser(ctx, userID)
}

func (s *deckServiceImpl) GetDeckWithCards(ctx context.Context, userID string, deckID uuid.UUID) (*DeckWithCards, error) {
	deck, err := s.decks.GetForUser(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, NewServiceError("deck", "get", "failed to load cards", err)
	}
	return &DeckWithCards{Deck: deck, Cards: cards}, nil
}

// newCards turns parsed pairs into validated domain cards for deckID. Pairs
// that fail validation are logged and skipped.
func newCards(log *slog.Logger, deckID uuid.UUID, parsed []cardtext.Card) []*domain.Card {
	cards := make([]*domain.Card, 0, len(parsed))
	for i, p := range parsed {
		c, err := domain.NewCard(deckID, p.Front, p.Back)
		if err != nil {
			log.Debug("skipping invalid parsed card",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		cards = append(cards, c)
	}
	return cards
}

func derefCards(cards []*domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[i] = *c
	}
	return out
}
