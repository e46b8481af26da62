package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxCardSideLength bounds the front and the back of a card.
const MaxCardSideLength = 5000

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = validationError("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = validationError("card deck ID cannot be empty")

	// ErrCardFrontInvalid is returned when the front is empty or too long.
	ErrCardFrontInvalid = validationError("card front must be 1-5000 characters")

	// ErrCardBackInvalid is returned when the back is empty or too long.
	ErrCardBackInvalid = validationError("card back must be 1-5000 characters")

	// ErrCardSidesIdentical is returned when front and back are the same text.
	ErrCardSidesIdentical = validationError("card front and back must be different")
)

// Card is one flashcard in a deck.
type Card struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck.
// It generates a new UUID for the card ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewCard(deckID uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Front:     strings.TrimSpace(front),
		Back:      strings.TrimSpace(back),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	front, back := strings.TrimSpace(c.Front), strings.TrimSpace(c.Back)
	if !validSide(front) {
		return ErrCardFrontInvalid
	}
	if !validSide(back) {
		return ErrCardBackInvalid
	}
	if front == back {
		return ErrCardSidesIdentical
	}
	return nil
}

// UpdateContent replaces both sides and updates the UpdatedAt timestamp.
// The card is unchanged if the new content is invalid.
func (c *Card) UpdateContent(front, back string) error {
	next := *c
	next.Front = strings.TrimSpace(front)
	next.Back = strings.TrimSpace(back)
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*c = next
	return nil
}

func validSide(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= MaxCardSideLength
}
