package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StudyMode is how a deck was studied.
type StudyMode string

// Study modes. Only test sessions are scored on leaderboards.
const (
	StudyModeFlip StudyMode = "flip"
	StudyModeTest StudyMode = "test"
)

// Study validation errors
var (
	ErrInvalidStudyMode    = validationError("study mode must be flip or test")
	ErrInvalidSessionScore = validationError("correct answers must be between 0 and total cards")
	ErrSessionUserIDEmpty  = validationError("session user ID cannot be empty")
)

// Valid reports whether m is a known mode.
func (m StudyMode) Valid() bool {
	return m == StudyModeFlip || m == StudyModeTest
}

// StudySession records one completed pass through a deck.
type StudySession struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	DeckID         uuid.UUID `json:"deck_id"`
	DeckName       string    `json:"deck_name,omitempty"`
	Mode           StudyMode `json:"mode"`
	TotalCards     int       `json:"total_cards"`
	CorrectAnswers int       `json:"correct_answers"`
	CompletedAt    time.Time `json:"completed_at"`
}

// StudyResult is the outcome for a single card within a session.
type StudyResult struct {
	SessionID uuid.UUID `json:"session_id"`
	CardID    uuid.UUID `json:"card_id"`
	IsCorrect bool      `json:"is_correct"`
}

// NewStudySession creates a validated, completed session.
func NewStudySession(userID string, deckID uuid.UUID, mode StudyMode, total, correct int) (*StudySession, error) {
	s := &StudySession{
		ID:             uuid.New(),
		UserID:         userID,
		DeckID:         deckID,
		Mode:           mode,
		TotalCards:     total,
		CorrectAnswers: correct,
		CompletedAt:    time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrSessionUserIDEmpty
	}
	if s.DeckID == uuid.Nil {
		return ErrDeckIDEmpty
	}
	if !s.Mode.Valid() {
		return ErrInvalidStudyMode
	}
	if s.TotalCards < 0 || s.CorrectAnswers < 0 || s.CorrectAnswers > s.TotalCards {
		return ErrInvalidSessionScore
	}
	return nil
}

// Percentage returns the rounded score, or 0 for an empty session.
func (s *StudySession) Percentage() int {
	return Percentage(s.CorrectAnswers, s.TotalCards)
}

// Percentage returns correct/total as a rounded percentage, 0 when total is 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}
