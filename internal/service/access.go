package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// deckAccess decides who may study a deck: its owner, and anyone taking
// part in a challenge on it.
type deckAccess struct {
	decks      store.DeckStore
	challenges store.ChallengeStore
}

// deckFor returns the deck when userID may read it. Decks the user cannot
// see are reported as not found.
func (a deckAccess) deckFor(ctx context.Context, userID string, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := a.decks.Get(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID == userID {
		return deck, nil
	}

	challenges, err := a.challenges.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range challenges {
		if c.DeckID == deckID {
			return deck, nil
		}
	}
	return nil, store.ErrDeckNotFound
}
