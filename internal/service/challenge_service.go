package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// ChallengeService lets users challenge each other on a deck.
type ChallengeService interface {
	// Create challenges challengedID to beat the challenger on deckID.
	Create(ctx context.Context, challengerID string, deckID uuid.UUID, challengedID string) (*domain.Challenge, error)

	// List returns every challenge the user sent or received, newest first.
	List(ctx context.Context, userID string) ([]domain.Challenge, error)

	// Decline lets the challenged user turn down a pending challenge.
	Decline(ctx context.Context, userID string, challengeID uuid.UUID) error
}

type challengeServiceImpl struct {
	access     deckAccess
	challenges store.ChallengeStore
	logger     *slog.Logger
}

// NewChallengeService creates a new ChallengeService.
func NewChallengeService(
	decks store.DeckStore,
	challenges store.ChallengeStore,
	logger *slog.Logger,
) (ChallengeService, error) {
	if decks == nil || challenges == nil {
		return nil, errors.New("challenge service requires deck and challenge stores")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &challengeServiceImpl{
		access:     deckAccess{decks: decks, challenges: challenges},
		challenges: challenges,
		logger:     logger.With(slog.String("component", "challenge_service")),
	}, nil
}

func (s *challengeServiceImpl) Create(
	ctx context.Context,
	challengerID string,
	deckID uuid.UUID,
	challengedID string,
) (*domain.Challenge, error) {
	challenge, err := domain.NewChallenge(deckID, challengerID, challengedID)
	if err != nil {
		return nil, err
	}
	deck, err := s.access.deckFor(ctx, challengerID, deckID)
	if err != nil {
		return nil, err
	}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, NewServiceError("challenge", "create", "failed to create challenge", err)
	}
	challenge.DeckName = deck.Name

	logger.FromContextOrDefault(ctx, s.logger).Info("challenge created",
		slog.String("challenge_id", challenge.ID.String()),
		slog.String("deck_id", deckID.String()))
	return challenge, nil
}

func (s *challengeServiceImpl) List(ctx context.Context, userID string) ([]domain.Challenge, error) {
	return s.challenges.ListForUser(ctx, userID)
}

func (s *challengeServiceImpl) Decline(ctx context.Context, userID string, challengeID uuid.UUID) error {
	challenge, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		return err
	}
	if err := challenge.Decline(userID); err != nil {
		return err
	}
	// Declining is conditional on the row still being pending.
	if err := s.challenges.Decline(ctx, challengeID, userID); err != nil {
		if store.IsNotFoundError(err) {
			return domain.ErrChallengeClosed
		}
		return err
	}
	return nil
}
