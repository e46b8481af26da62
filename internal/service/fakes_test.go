package service

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// newTxDB returns a sqlmock database for services that open transactions.
// Tests declare the Begin/Commit/Rollback they expect.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

// fakeDeckStore keeps decks in memory. WithTx returns the same store.
type fakeDeckStore struct {
	mu        sync.Mutex
	decks     map[uuid.UUID]domain.Deck
	createErr error
	listErr   error
}

func newFakeDeckStore(decks ...domain.Deck) *fakeDeckStore {
	s := &fakeDeckStore{decks: make(map[uuid.UUID]domain.Deck)}
	for _, d := range decks {
		s.decks[d.ID] = d
	}
	return s
}

func (s *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.decks[deck.ID] = *deck
	return nil
}

func (s *fakeDeckStore) Get(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return &d, nil
}

func (s *fakeDeckStore) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.Deck, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, store.ErrDeckNotFound
	}
	return d, nil
}

func (s *fakeDeckStore) ListForUser(_ context.Context, userID string) ([]domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Deck
	for _, d := range s.decks {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b domain.Deck) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *fakeDeckStore) ListRecentForUser(ctx context.Context, userID string, limit int) ([]domain.Deck, error) {
	decks, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(decks, func(a, b domain.Deck) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return decks[:min(limit, len(decks))], nil
}

func (s *fakeDeckStore) Update(_ context.Context, deck *domain.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks[deck.ID]
	if !ok || d.UserID != deck.UserID {
		return store.ErrDeckNotFound
	}
	s.decks[deck.ID] = *deck
	return nil
}

func (s *fakeDeckStore) Delete(_ context.Context, userID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks[id]
	if !ok || d.UserID != userID {
		return store.ErrDeckNotFound
	}
	delete(s.decks, id)
	return nil
}

func (s *fakeDeckStore) WithTx(*sql.Tx) store.DeckStore { return s }

// fakeCardStore keeps cards in memory and resolves ownership through decks.
type fakeCardStore struct {
	mu        sync.Mutex
	decks     *fakeDeckStore
	cards     []domain.Card
	createErr error
}

func newFakeCardStore(decks *fakeDeckStore, cards ...domain.Card) *fakeCardStore {
	return &fakeCardStore{decks: decks, cards: cards}
}

func (s *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	return s.CreateMultiple(ctx, []*domain.Card{card})
}

func (s *fakeCardStore) CreateMultiple(_ context.Context, cards []*domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, c := range cards {
		s.cards = append(s.cards, *c)
	}
	return nil
}

func (s *fakeCardStore) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.Card, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.cards, func(c domain.Card) bool { return c.ID == id })
	var card domain.Card
	if i >= 0 {
		card = s.cards[i]
	}
	s.mu.Unlock()

	if i < 0 {
		return nil, store.ErrCardNotFound
	}
	if _, err := s.decks.GetForUser(ctx, userID, card.DeckID); err != nil {
		return nil, store.ErrCardNotFound
	}
	return &card, nil
}

func (s *fakeCardStore) ListByDeck(_ context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Card
	for _, c := range s.cards {
		if c.DeckID == deckID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCardStore) Update(_ context.Context, card *domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.cards, func(c domain.Card) bool { return c.ID == card.ID })
	if i < 0 {
		return store.ErrCardNotFound
	}
	s.cards[i] = *card
	return nil
}

func (s *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.cards)
	s.cards = slices.DeleteFunc(s.cards, func(c domain.Card) bool { return c.ID == id })
	if len(s.cards) == n {
		return store.ErrCardNotFound
	}
	return nil
}

func (s *fakeCardStore) WithTx(*sql.Tx) store.CardStore { return s }

// fakeStudyStore records sessions and results.
type fakeStudyStore struct {
	mu        sync.Mutex
	sessions  []domain.StudySession
	results   []domain.StudyResult
	createErr error
}

func (s *fakeStudyStore) CreateSession(_ context.Context, session *domain.StudySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.sessions = append(s.sessions, *session)
	return nil
}

func (s *fakeStudyStore) SaveResults(_ context.Context, results []domain.StudyResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, results...)
	return nil
}

func (s *fakeStudyStore) ListForUser(_ context.Context, userID string, limit int) ([]domain.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StudySession
	for _, sess := range slices.Backward(s.sessions) {
		if sess.UserID == userID && len(out) < limit {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *fakeStudyStore) ListForDeck(_ context.Context, userID string, deckID uuid.UUID) ([]domain.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StudySession
	for _, sess := range slices.Backward(s.sessions) {
		if sess.UserID == userID && sess.DeckID == deckID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *fakeStudyStore) WithTx(*sql.Tx) store.StudyStore { return s }

// fakeChallengeStore keeps challenges in memory.
type fakeChallengeStore struct {
	mu         sync.Mutex
	challenges map[uuid.UUID]domain.Challenge
	updates    int
}

func newFakeChallengeStore(challenges ...domain.Challenge) *fakeChallengeStore {
	s := &fakeChallengeStore{challenges: make(map[uuid.UUID]domain.Challenge)}
	for _, c := range challenges {
		s.challenges[c.ID] = c
	}
	return s
}

func (s *fakeChallengeStore) Create(_ context.Context, c *domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = *c
	return nil
}

func (s *fakeChallengeStore) Get(_ context.Context, id uuid.UUID) (*domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok {
		return nil, store.ErrChallengeNotFound
	}
	return &c, nil
}

func (s *fakeChallengeStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	return s.Get(ctx, id)
}

func (s *fakeChallengeStore) ListForUser(_ context.Context, userID string) ([]domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Challenge
	for _, c := range s.challenges {
		if c.ChallengerID == userID || c.ChallengedID == userID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Challenge) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *fakeChallengeStore) Update(_ context.Context, c *domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = *c
	s.updates++
	return nil
}

func (s *fakeChallengeStore) Decline(_ context.Context, id uuid.UUID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok || c.ChallengedID != userID || c.Status != domain.ChallengeStatusPending {
		return store.ErrChallengeNotFound
	}
	c.Status = domain.ChallengeStatusDeclined
	s.challenges[id] = c
	return nil
}

func (s *fakeChallengeStore) WithTx(*sql.Tx) store.ChallengeStore { return s }

// fakeLeaderboardStore serves canned leaderboards.
type fakeLeaderboardStore struct {
	mu       sync.Mutex
	boards   map[uuid.UUID][]domain.LeaderboardEntry
	global   []domain.GlobalLeaderboardEntry
	active   []domain.DeckLeaderboard
	boardErr error
	rankErr  error
	calls    []int
}

func (s *fakeLeaderboardStore) DeckLeaderboard(_ context.Context, deckID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, limit)
	if s.boardErr != nil {
		return nil, s.boardErr
	}
	entries := slices.Clone(s.boards[deckID])
	slices.SortStableFunc(entries, func(a, b domain.LeaderboardEntry) int { return cmp.Compare(b.BestScore, a.BestScore) })
	if limit > 0 {
		entries = entries[:min(limit, len(entries))]
	}
	return entries, nil
}

func (s *fakeLeaderboardStore) UserRank(ctx context.Context, userID string, deckID uuid.UUID) (domain.UserRank, error) {
	if s.rankErr != nil {
		return domain.UserRank{}, s.rankErr
	}
	entries, err := s.DeckLeaderboard(ctx, deckID, 0)
	if err != nil {
		return domain.UserRank{}, err
	}
	return domain.RankOf(entries, userID), nil
}

func (s *fakeLeaderboardStore) Global(_ context.Context, limit int) ([]domain.GlobalLeaderboardEntry, error) {
	return s.global[:min(limit, len(s.global))], nil
}

func (s *fakeLeaderboardStore) ActiveDecks(_ context.Context, limit int) ([]domain.DeckLeaderboard, error) {
	return slices.Clone(s.active[:min(limit, len(s.active))]), nil
}

func mustDeck(t *testing.T, userID, name string) domain.Deck {
	t.Helper()
	d, err := domain.NewDeck(userID, name, "")
	require.NoError(t, err)
	return *d
}

func mustCard(t *testing.T, deckID uuid.UUID, front, back string) domain.Card {
	t.Helper()
	c, err := domain.NewCard(deckID, front, back)
	require.NoError(t, err)
	return *c
}
