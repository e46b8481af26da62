package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// Leaderboard sizes used when the caller does not ask for one.
const (
	DefaultLeaderboardLimit = 10
	DefaultDeckTopScores    = 5
	activeDeckCount         = 10
	maxLeaderboardLimit     = 100
)

// DeckLeaderboardView is a deck leaderboard plus the caller's position on it.
type DeckLeaderboardView struct {
	DeckID   uuid.UUID                 `json:"deck_id"`
	DeckName string                    `json:"deck_name"`
	Entries  []domain.LeaderboardEntry `json:"entries"`
	UserRank domain.UserRank           `json:"user_rank"`
}

// Leaderboards is the global board together with the most active decks.
type Leaderboards struct {
	Global []domain.GlobalLeaderboardEntry `json:"global"`
	Decks  []domain.DeckLeaderboard        `json:"decks"`
}

// LeaderboardService ranks users by their test-mode scores.
type LeaderboardService interface {
	Deck(ctx context.Context, userID string, deckID uuid.UUID, limit int) (*DeckLeaderboardView, error)
	Global(ctx context.Context, limit int) ([]domain.GlobalLeaderboardEntry, error)
	AllDecks(ctx context.Context, topScores int) ([]domain.DeckLeaderboard, error)
	Overview(ctx context.Context) (*Leaderboards, error)
	UserRank(ctx context.Context, userID string, deckID uuid.UUID) (domain.UserRank, error)
}

type leaderboardServiceImpl struct {
	access      deckAccess
	leaderboard store.LeaderboardStore
	logger      *slog.Logger
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	decks store.DeckStore,
	challenges store.ChallengeStore,
	leaderboard store.LeaderboardStore,
	logger *slog.Logger,
) (LeaderboardService, error) {
	if decks == nil || challenges == nil || leaderboard == nil {
		return nil, errors.New("leaderboard service requires deck, challenge and leaderboard stores")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &leaderboardServiceImpl{
		access:      deckAccess{decks: decks, challenges: challenges},
		leaderboard: leaderboard,
		logger:      logger.With(slog.String("component", "leaderboard_service")),
	}, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, maxLeaderboardLimit)
}

func (s *leaderboardServiceImpl) Deck(
	ctx context.Context,
	userID string,
	deckID uuid.UUID,
	limit int,
) (*DeckLeaderboardView, error) {
	deck, err := s.access.deckFor(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	entries, err := s.leaderboard.DeckLeaderboard(ctx, deckID, 0)
	if err != nil {
		return nil, NewServiceError("leaderboard", "deck", "failed to load leaderboard", err)
	}

	view := &DeckLeaderboardView{
		DeckID:   deck.ID,
		DeckName: deck.Name,
		UserRank: domain.RankOf(entries, userID),
		Entries:  entries[:min(len(entries), clampLimit(limit, DefaultLeaderboardLimit))],
	}
	return view, nil
}

func (s *leaderboardServiceImpl) Global(ctx context.Context, limit int) ([]domain.GlobalLeaderboardEntry, error) {
	return s.leaderboard.Global(ctx, clampLimit(limit, DefaultLeaderboardLimit))
}

// AllDecks returns the most active decks, each with its top scores. The
// per-deck boards are loaded concurrently.
func (s *leaderboardServiceImpl) AllDecks(ctx context.Context, topScores int) ([]domain.DeckLeaderboard, error) {
	topScores = clampLimit(topScores, DefaultDeckTopScores)

	decks, err := s.leaderboard.ActiveDecks(ctx, activeDeckCount)
	if err != nil {
		return nil, NewServiceError("leaderboard", "all decks", "failed to load active decks", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range decks {
		g.Go(func() error {
			entries, err := s.leaderboard.DeckLeaderboard(gctx, decks[i].DeckID, topScores)
			if err != nil {
				return err
			}
			decks[i].TopScores = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, NewServiceError("leaderboard", "all decks", "failed to load deck scores", err)
	}
	return decks, nil
}

func (s *leaderboardServiceImpl) Overview(ctx context.Context) (*Leaderboards, error) {
	global, err := s.Global(ctx, DefaultLeaderboardLimit)
	if err != nil {
		return nil, err
	}
	decks, err := s.AllDecks(ctx, DefaultDeckTopScores)
	if err != nil {
		return nil, err
	}
	return &Leaderboards{Global: global, Decks: decks}, nil
}

func (s *leaderboardServiceImpl) UserRank(ctx context.Context, userID string, deckID uuid.UUID) (domain.UserRank, error) {
	if _, err := s.access.deckFor(ctx, userID, deckID); err != nil {
		return domain.UserRank{}, err
	}
	return s.leaderboard.UserRank(ctx, userID, deckID)
}
