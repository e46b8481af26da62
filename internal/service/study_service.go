package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// DefaultRecentSessions is how many sessions RecentSessions returns when no limit is given.
const DefaultRecentSessions = 10

// Quiz is a test-mode run through a deck.
type Quiz struct {
	DeckID    uuid.UUID         `json:"deck_id"`
	DeckName  string            `json:"deck_name"`
	Questions []domain.Question `json:"questions"`
}

// Answer is the option a user picked for a test-mode question.
type Answer struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Answer string    `json:"answer"`
}

// CardResult is a self-graded flip-mode result.
type CardResult struct {
	CardID  uuid.UUID `json:"card_id" validate:"required"`
	Correct bool      `json:"correct"`
}

// SessionSubmission is a finished study session. Test sessions carry
// Answers, flip sessions carry Results.
type SessionSubmission struct {
	Mode        domain.StudyMode
	Answers     []Answer
	Results     []CardResult
	ChallengeID *uuid.UUID
}

// SessionOutcome is the graded result of a submission.
type SessionOutcome struct {
	Session    *domain.StudySession `json:"session"`
	Results    []domain.StudyResult `json:"results"`
	Percentage int                  `json:"percentage"`
	Passed     bool                 `json:"passed"`
	Rank       *domain.UserRank     `json:"rank,omitempty"`
	Challenge  *domain.Challenge    `json:"challenge,omitempty"`
}

// StudyService runs study sessions.
type StudyService interface {
	// BuildQuiz returns one multiple-choice question per card. Decks with
	// fewer than domain.MinTestCards cards are rejected.
	BuildQuiz(ctx context.Context, userID string, deckID uuid.UUID, shuffle bool) (*Quiz, error)

	// SubmitSession grades and stores a session, recording it against a
	// challenge when one is given.
	SubmitSession(ctx context.Context, userID string, deckID uuid.UUID, sub SessionSubmission) (*SessionOutcome, error)

	// DeckStatistics summarizes the user's sessions on a deck.
	DeckStatistics(ctx context.Context, userID string, deckID uuid.UUID) (domain.DeckStatistics, error)

	// RecentSessions returns the user's latest sessions across all decks.
	RecentSessions(ctx context.Context, userID string, limit int) ([]domain.StudySession, error)
}

type studyServiceImpl struct {
	db          store.TxBeginner
	access      deckAccess
	cards       store.CardStore
	sessions    store.StudyStore
	challenges  store.ChallengeStore
	leaderboard store.LeaderboardStore
	newRand     func() *rand.Rand
	logger      *slog.Logger
}

// StudyStores groups the stores a StudyService needs.
type StudyStores struct {
	Decks       store.DeckStore
	Cards       store.CardStore
	Sessions    store.StudyStore
	Challenges  store.ChallengeStore
	Leaderboard store.LeaderboardStore
}

// NewStudyService creates a new StudyService.
// It returns an error if any of the required dependencies are nil.
func NewStudyService(db store.TxBeginner, stores StudyStores, logger *slog.Logger) (StudyService, error) {
	if db == nil || stores.Decks == nil || stores.Cards == nil || stores.Sessions == nil ||
		stores.Challenges == nil || stores.Leaderboard == nil {
		return nil, errors.New("study service requires a database and all study stores")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &studyServiceImpl{
		db:          db,
		access:      deckAccess{decks: stores.Decks, challenges: stores.Challenges},
		cards:       stores.Cards,
		sessions:    stores.Sessions,
		challenges:  stores.Challenges,
		leaderboard: stores.Leaderboard,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		logger: logger.With(slog.String("component", "study_service")),
	}, nil
}

func (s *studyServiceImpl) BuildQuiz(ctx context.Context, userID string, deckID uuid.UUID, shuffle bool) (*Quiz, error) {
	deck, err := s.access.deckFor(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, NewServiceError("study", "build quiz", "failed to load cards", err)
	}
	if len(cards) < domain.MinTestCards {
		return nil, domain.ErrTooFewCards
	}

	rng := s.newRand()
	if shuffle {
		rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	}

	questions := make([]domain.Question, len(cards))
	for i, c := range cards {
		questions[i] = domain.BuildQuestion(c, cards, rng)
	}
	return &Quiz{DeckID: deck.ID, DeckName: deck.Name, Questions: questions}, nil
}

// grade turns a submission into per-card results against the deck's cards.
func grade(sub SessionSubmission, cards []domain.Card) ([]domain.StudyResult, error) {
	byID := make(map[uuid.UUID]domain.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	seen := make(map[uuid.UUID]struct{})
	check := func(id uuid.UUID) (domain.Card, error) {
		c, ok := byID[id]
		if !ok {
			return domain.Card{}, ErrUnknownCard
		}
		if _, dup := seen[id]; dup {
			return domain.Card{}, ErrDuplicateResult
		}
		seen[id] = struct{}{}
		return c, nil
	}

	var results []domain.StudyResult
	switch sub.Mode {
	case domain.StudyModeTest:
		if len(cards) < domain.MinTestCards {
			return nil, domain.ErrTooFewCards
		}
		for _, a := range sub.Answers {
			c, err := check(a.CardID)
			if err != nil {
				return nil, err
			}
			results = append(results, domain.StudyResult{CardID: c.ID, IsCorrect: domain.CheckAnswer(a.Answer, c.Back)})
		}
	case domain.StudyModeFlip:
		for _, r := range sub.Results {
			c, err := check(r.CardID)
			if err != nil {
				return nil, err
			}
			results = append(results, domain.StudyResult{CardID: c.ID, IsCorrect: r.Correct})
		}
	default:
		return nil, domain.ErrInvalidStudyMode
	}

	if len(results) == 0 {
		return nil, ErrEmptySession
	}
	return results, nil
}

func (s *studyServiceImpl) SubmitSession(
	ctx context.Context,
	userID string,
	deckID uuid.UUID,
	sub SessionSubmission,
) (*SessionOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.access.deckFor(ctx, userID, deckID); err != nil {
		return nil, err
	}
	if sub.ChallengeID != nil && sub.Mode != domain.StudyModeTest {
		return nil, ErrChallengeDeckMismatch
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, NewServiceError("study", "submit", "failed to load cards", err)
	}
	results, err := grade(sub, cards)
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
	}
	session, err := domain.NewStudySession(userID, deckID, sub.Mode, len(results), correct)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].SessionID = session.ID
	}

	outcome := &SessionOutcome{
		Session:    session,
		Results:    results,
		Percentage: session.Percentage(),
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSessions := s.sessions.WithTx(tx)
		if err := txSessions.CreateSession(ctx, session); err != nil {
			return err
		}
		if err := txSessions.SaveResults(ctx, results); err != nil {
			return err
		}
		if sub.ChallengeID == nil {
			return nil
		}

		txChallenges := s.challenges.WithTx(tx)
		challenge, err := txChallenges.GetForUpdate(ctx, *sub.ChallengeID)
		if err != nil {
			return err
		}
		if challenge.DeckID != deckID {
			return ErrChallengeDeckMismatch
		}
		if err := challenge.RecordResult(userID, session.ID, outcome.Percentage); err != nil {
			return err
		}
		outcome.Challenge = challenge
		return txChallenges.Update(ctx, challenge)
	})
	if err != nil {
		log.Error("failed to save study session",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	if sub.Mode == domain.StudyModeTest {
		outcome.Passed = domain.Passed(outcome.Percentage)
		rank, err := s.leaderboard.UserRank(ctx, userID, deckID)
		if err != nil {
			// The session is committed; respond without a rank.
			log.Warn("failed to load rank after session",
				slog.String("deck_id", deckID.String()),
				slog.String("error", err.Error()))
		} else {
			outcome.Rank = &rank
		}
	}

	log.Info("study session recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("mode", string(session.Mode)),
		slog.Int("percentage", outcome.Percentage))
	return outcome, nil
}

func (s *studyServiceImpl) DeckStatistics(
	ctx context.Context,
	userID string,
	deckID uuid.UUID,
) (domain.DeckStatistics, error) {
	if _, err := s.access.deckFor(ctx, userID, deckID); err != nil {
		return domain.DeckStatistics{}, err
	}
	sessions, err := s.sessions.ListForDeck(ctx, userID, deckID)
	if err != nil {
		return domain.DeckStatistics{}, NewServiceError("study", "statistics", "failed to load sessions", err)
	}
	return domain.NewDeckStatistics(sessions), nil
}

func (s *studyServiceImpl) RecentSessions(ctx context.Context, userID string, limit int) ([]domain.StudySession, error) {
	if limit <= 0 {
		limit = DefaultRecentSessions
	}
	return s.sessions.ListForUser(ctx, userID, limit)
}
