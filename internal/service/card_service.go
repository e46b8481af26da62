package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/cardtext"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// minBulkTextLength is the shortest bulk import text worth parsing.
const minBulkTextLength = 3

// ParsePreview is what a block of card text would turn into.
type ParsePreview struct {
	Cards   []cardtext.Card `json:"cards"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
}

// CardService manages the cards inside a user's decks.
type CardService interface {
	// CreateCard adds one card. Both sides are normalized before storing.
	CreateCard(ctx context.Context, userID string, deckID uuid.UUID, front, back string) (*domain.Card, error)

	// UpdateCard replaces both sides of a card, normalizing them like CreateCard.
	UpdateCard(ctx context.Context, userID string, deckID, cardID uuid.UUID, front, back string) (*domain.Card, error)

	// DeleteCard removes a card from a deck the user owns.
	DeleteCard(ctx context.Context, userID string, deckID, cardID uuid.UUID) error

	// BulkCreate parses text with original casing kept and stores every card found.
	BulkCreate(ctx context.Context, userID string, deckID uuid.UUID, text string) ([]domain.Card, error)

	// PreviewParse reports the cards text would produce without storing anything.
	PreviewParse(text string, preserveCase bool) ParsePreview
}

type cardServiceImpl struct {
	db     store.TxBeginner
	decks  store.DeckStore
	cards  store.CardStore
	logger *slog.Logger
}

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	db store.TxBeginner,
	decks store.DeckStore,
	cards store.CardStore,
	logger *slog.Logger,
) (CardService, error) {
	if db == nil || decks == nil || cards == nil {
		return nil, errors.New("card service requires a database, a deck store and a card store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cardServiceImpl{
		db:     db,
		decks:  decks,
		cards:  cards,
		logger: logger.With(slog.String("component", "card_service")),
	}, nil
}

func normalizedSides(front, back string) (string, string, error) {
	front, back = cardtext.Normalize(front), cardtext.Normalize(back)
	if front == "" || back == "" {
		return "", "", ErrEmptyCardText
	}
	return front, back, nil
}

func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID string,
	deckID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	front, back, err := normalizedSides(front, back)
	if err != nil {
		return nil, err
	}
	if _, err := s.decks.GetForUser(ctx, userID, deckID); err != nil {
		return nil, err
	}

	card, err := domain.NewCard(deckID, front, back)
	if err != nil {
		return nil, err
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, NewServiceError("card", "create", "failed to create card", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	return card, nil
}

// cardInDeck loads a card the user owns and checks it sits in deckID.
func (s *cardServiceImpl) cardInDeck(
	ctx context.Context,
	cards store.CardStore,
	userID string,
	deckID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := cards.GetForUser(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if card.DeckID != deckID {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID string,
	deckID, cardID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	front, back, err := normalizedSides(front, back)
	if err != nil {
		return nil, err
	}

	var card *domain.Card
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		c, err := s.cardInDeck(ctx, txCards, userID, deckID, cardID)
		if err != nil {
			return err
		}
		if err := c.UpdateContent(front, back); err != nil {
			return err
		}
		card = c
		return txCards.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID string, deckID, cardID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		if _, err := s.cardInDeck(ctx, txCards, userID, deckID, cardID); err != nil {
			return err
		}
		return txCards.Delete(ctx, cardID)
	})
}

func (s *cardServiceImpl) BulkCreate(
	ctx context.Context,
	userID string,
	deckID uuid.UUID,
	text string,
) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if utf8.RuneCountInString(strings.TrimSpace(text)) < minBulkTextLength {
		return nil, ErrCardsTextRequired
	}
	if _, err := s.decks.GetForUser(ctx, userID, deckID); err != nil {
		return nil, err
	}

	cards := newCards(log, deckID, cardtext.ParsePreservingCase(text))
	if len(cards) == 0 {
		log.Info("bulk import produced no cards", slog.String("deck_id", deckID.String()))
		return nil, ErrNoCardsParsed
	}
	if err := s.cards.CreateMultiple(ctx, cards); err != nil {
		return nil, NewServiceError("card", "bulk create", "failed to create cards", err)
	}

	log.Info("bulk import completed",
		slog.String("deck_id", deckID.String()),
		slog.Int("card_count", len(cards)))
	return derefCards(cards), nil
}

func (s *cardServiceImpl) PreviewParse(text string, preserveCase bool) ParsePreview {
	var cards []cardtext.Card
	if preserveCase {
		cards = cardtext.ParsePreservingCase(text)
	} else {
		cards = cardtext.ParseAndNormalize(text)
	}
	return ParsePreview{
		Cards:   cards,
		Count:   len(cards),
		Message: fmt.Sprintf("%d cards detected", len(cards)),
	}
}
