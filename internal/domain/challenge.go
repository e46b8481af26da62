package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChallengeStatus is the lifecycle state of a challenge.
type ChallengeStatus string

// Challenge states. Pending and accepted are open; the rest are final.
const (
	ChallengeStatusPending   ChallengeStatus = "pending"
	ChallengeStatusAccepted  ChallengeStatus = "accepted"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusDeclined  ChallengeStatus = "declined"
)

// Challenge errors
var (
	ErrSelfChallenge = validationError("cannot challenge yourself")
	ErrChallengeUser = validationError("challenger and challenged user IDs are required")

	// ErrNotChallengeParticipant is returned when a user outside the
	// challenge tries to act on it.
	ErrNotChallengeParticipant = errors.New("user is not part of this challenge")

	// ErrChallengeClosed is returned when acting on a completed or declined
	// challenge, or declining one that is no longer pending.
	ErrChallengeClosed = errors.New("challenge is no longer open")
)

// Challenge pits two users against each other on the same deck. Each side
// records the score of one test session.
type Challenge struct {
	ID                  uuid.UUID       `json:"id"`
	DeckID              uuid.UUID       `json:"deck_id"`
	DeckName            string          `json:"deck_name,omitempty"`
	ChallengerID        string          `json:"challenger_id"`
	ChallengedID        string          `json:"challenged_id"`
	ChallengerScore     *int            `json:"challenger_score"`
	ChallengedScore     *int            `json:"challenged_score"`
	ChallengerSessionID *uuid.UUID      `json:"challenger_session_id,omitempty"`
	ChallengedSessionID *uuid.UUID      `json:"challenged_session_id,omitempty"`
	Status              ChallengeStatus `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	CompletedAt         *time.Time      `json:"completed_at"`
}

// NewChallenge creates a pending challenge.
func NewChallenge(deckID uuid.UUID, challengerID, challengedID string) (*Challenge, error) {
	challengerID, challengedID = strings.TrimSpace(challengerID), strings.TrimSpace(challengedID)
	if deckID == uuid.Nil {
		return nil, ErrDeckIDEmpty
	}
	if challengerID == "" || challengedID == "" {
		return nil, ErrChallengeUser
	}
	if challengerID == challengedID {
		return nil, ErrSelfChallenge
	}
	return &Challenge{
		ID:           uuid.New(),
		DeckID:       deckID,
		ChallengerID: challengerID,
		ChallengedID: challengedID,
		Status:       ChallengeStatusPending,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Open reports whether results can still be recorded.
func (c *Challenge) Open() bool {
	return c.Status == ChallengeStatusPending || c.Status == ChallengeStatusAccepted
}

// RecordResult stores userID's score from the given session. The challenge
// completes once both sides have a score; a pending challenge becomes
// accepted when the challenged user answers first.
func (c *Challenge) RecordResult(userID string, sessionID uuid.UUID, score int) error {
	if !c.Open() {
		return ErrChallengeClosed
	}

	var otherScore *int
	switch userID {
	case c.ChallengerID:
		c.ChallengerScore, c.ChallengerSessionID = &score, &sessionID
		otherScore = c.ChallengedScore
	case c.ChallengedID:
		c.ChallengedScore, c.ChallengedSessionID = &score, &sessionID
		otherScore = c.ChallengerScore
	default:
		return ErrNotChallengeParticipant
	}

	switch {
	case otherScore != nil:
		now := time.Now().UTC()
		c.Status = ChallengeStatusCompleted
		c.CompletedAt = &now
	case c.Status == ChallengeStatusPending && userID == c.ChallengedID:
		c.Status = ChallengeStatusAccepted
	}
	return nil
}

// Decline marks a pending challenge as declined. Only the challenged user
// may decline.
func (c *Challenge) Decline(userID string) error {
	if userID != c.ChallengedID {
		return ErrNotChallengeParticipant
	}
	if c.Status != ChallengeStatusPending {
		return ErrChallengeClosed
	}
	c.Status = ChallengeStatusDeclined
	return nil
}

// Winner returns the user ID with the higher score once the challenge is
// completed. Ties and open challenges return "".
func (c *Challenge) Winner() string {
	if c.Status != ChallengeStatusCompleted || c.ChallengerScore == nil || c.ChallengedScore == nil {
		return ""
	}
	switch {
	case *c.ChallengerScore > *c.ChallengedScore:
		return c.ChallengerID
	case *c.ChallengedScore > *c.ChallengerScore:
		return c.ChallengedID
	default:
		return ""
	}
}
