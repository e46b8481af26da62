package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Deck field limits.
const (
	MaxDeckNameLength        = 255
	MaxDeckDescriptionLength = 1000
)

// Deck-specific validation errors
var (
	ErrDeckIDEmpty            = validationError("deck ID cannot be empty")
	ErrDeckUserIDEmpty        = validationError("deck user ID cannot be empty")
	ErrDeckNameInvalid        = validationError("deck name must be 1-255 characters")
	ErrDeckDescriptionTooLong = validationError("deck description must be at most 1000 characters")
)

// Deck is a named, user-owned collection of cards.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a validated Deck owned by userID.
func NewDeck(userID, name, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}
	if strings.TrimSpace(d.UserID) == "" {
		return ErrDeckUserIDEmpty
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(d.Name)); n == 0 || n > MaxDeckNameLength {
		return ErrDeckNameInvalid
	}
	if utf8.RuneCountInString(d.Description) > MaxDeckDescriptionLength {
		return ErrDeckDescriptionTooLong
	}
	return nil
}

// Update changes name and description, leaving the deck untouched when the new
// values are invalid.
func (d *Deck) Update(name, description string) error {
	next := *d
	next.Name = strings.TrimSpace(name)
	next.Description = strings.TrimSpace(description)
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*d = next
	return nil
}
