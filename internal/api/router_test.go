package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashdeck-api/internal/api/middleware"
	"github.com/phrazzld/flashdeck-api/internal/cardtext"
	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/generation"
	"github.com/phrazzld/flashdeck-api/internal/service"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
	"github.com/phrazzld/flashdeck-api/internal/store"
)

// Fakes embed the service interface; calling a method a test did not
// override panics, which the router's Recoverer turns into a 500.

type fakeDeckService struct {
	service.DeckService
	decks     map[uuid.UUID]*domain.Deck
	lastCards string
}

func (f *fakeDeckService) CreateDeck(_ context.Context, userID, name, description, cardsText string) (*service.DeckWithCards, error) {
	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		return nil, err
	}
	f.lastCards = cardsText
	f.decks[deck.ID] = deck
	return &service.DeckWithCards{Deck: deck, Cards: []domain.Card{}}, nil
}

func (f *fakeDeckService) GetDeckWithCards(_ context.Context, userID string, deckID uuid.UUID) (*service.DeckWithCards, error) {
	d, ok := f.decks[deckID]
	if !ok || d.UserID != userID {
		return nil, store.ErrDeckNotFound
	}
	return &service.DeckWithCards{Deck: d, Cards: []domain.Card{}}, nil
}

func (f *fakeDeckService) ListDecks(_ context.Context, userID string) ([]domain.Deck, error) {
	out := []domain.Deck{}
	for _, d := range f.decks {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeckService) DeleteDeck(ctx context.Context, userID string, deckID uuid.UUID) error {
	if _, err := f.GetDeckWithCards(ctx, userID, deckID); err != nil {
		return err
	}
	delete(f.decks, deckID)
	return nil
}

type fakeCardService struct {
	service.CardService
	bulkErr error
}

func (f *fakeCardService) PreviewParse(text string, preserveCase bool) service.ParsePreview {
	cards := cardtext.ParseAndNormalize(text)
	if preserveCase {
		cards = cardtext.ParsePreservingCase(text)
	}
	return service.ParsePreview{Cards: cards, Count: len(cards)}
}

func (f *fakeCardService) BulkCreate(_ context.Context, _ string, deckID uuid.UUID, _ string) ([]domain.Card, error) {
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	return []domain.Card{{ID: uuid.New(), DeckID: deckID, Front: "Hond", Back: "Dog"}}, nil
}

func (f *fakeCardService) DeleteCard(context.Context, string, uuid.UUID, uuid.UUID) error {
	return store.ErrCardNotFound
}

type fakeStudyService struct {
	service.StudyService
	lastSubmission service.SessionSubmission
	lastLimit      int
}

func (f *fakeStudyService) SubmitSession(_ context.Context, userID string, deckID uuid.UUID, sub service.SessionSubmission) (*service.SessionOutcome, error) {
	f.lastSubmission = sub
	session, err := domain.NewStudySession(userID, deckID, sub.Mode, 4, 3)
	if err != nil {
		return nil, err
	}
	return &service.SessionOutcome{Session: session, Percentage: 75, Passed: true}, nil
}

func (f *fakeStudyService) BuildQuiz(context.Context, string, uuid.UUID, bool) (*service.Quiz, error) {
	return nil, domain.ErrTooFewCards
}

func (f *fakeStudyService) RecentSessions(_ context.Context, _ string, limit int) ([]domain.StudySession, error) {
	f.lastLimit = limit
	return []domain.StudySession{}, nil
}

type fakeLeaderboardService struct {
	service.LeaderboardService
}

func (fakeLeaderboardService) Overview(context.Context) (*service.Leaderboards, error) {
	return &service.Leaderboards{Global: []domain.GlobalLeaderboardEntry{{UserID: "bob", AverageScore: 91}}}, nil
}

type fakeChallengeService struct {
	service.ChallengeService
}

func (fakeChallengeService) Create(_ context.Context, challengerID string, deckID uuid.UUID, challengedID string) (*domain.Challenge, error) {
	return domain.NewChallenge(deckID, challengerID, challengedID)
}

func (fakeChallengeService) Decline(_ context.Context, userID string, _ uuid.UUID) error {
	if userID != "bob" {
		return domain.ErrNotChallengeParticipant
	}
	return nil
}

type fakeGenerationService struct {
	service.GenerationService
	err error
}

func (f fakeGenerationService) Generate(_ context.Context, _ string, _ string, count int) (*service.GenerationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.GenerationResult{Text: "Kat | Cat", Cards: []cardtext.Card{{Front: "kat", Back: "cat"}}, Count: count}, nil
}

type fakeTemplateService struct {
	service.TemplateService
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type routerFixture struct {
	handler http.Handler
	jwt     auth.JWTService
	decks   *fakeDeckService
	cards   *fakeCardService
	study   *fakeStudyService
}

func newRouterFixture(t *testing.T, gen fakeGenerationService, db Pinger) *routerFixture {
	t.Helper()
	jwt, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 5,
	})
	require.NoError(t, err)

	log := slog.New(slog.DiscardHandler)
	f := &routerFixture{
		jwt:   jwt,
		decks: &fakeDeckService{decks: make(map[uuid.UUID]*domain.Deck)},
		cards: &fakeCardService{},
		study: &fakeStudyService{},
	}
	f.handler = NewRouter(Handlers{
		Decks:        NewDeckHandler(f.decks, log),
		Cards:        NewCardHandler(f.cards, log),
		Study:        NewStudyHandler(f.study, log),
		Leaderboards: NewLeaderboardHandler(fakeLeaderboardService{}, log),
		Challenges:   NewChallengeHandler(fakeChallengeService{}, log),
		Generation:   NewGenerationHandler(gen, fakeTemplateService{}, log),
	}, middleware.NewAuthMiddleware(jwt), db, log)
	return f
}

// do sends a request as userID; an empty userID sends no token.
func (f *routerFixture) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		token, err := f.jwt.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ok := newRouterFixture(t, fakeGenerationService{}, fakePinger{})
	w := ok.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Len(t, w.Header().Get(middleware.TraceIDHeader), 32)

	down := newRouterFixture(t, fakeGenerationService{}, fakePinger{err: errors.New("connection refused")})
	w = down.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestParsePreviewIsPublic(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)

	w := f.do(t, http.MethodPost, "/api/cards/parse", "", ParseRequest{Text: "Apple | Appel\nDOG | Hond", PreserveCase: true})
	require.Equal(t, http.StatusOK, w.Code)
	preview := decodeBody[service.ParsePreview](t, w)
	assert.Equal(t, 2, preview.Count)
	assert.Equal(t, "DOG", preview.Cards[1].Front)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)

	for _, path := range []string{"/api/decks", "/api/sessions", "/api/templates", "/api/challenges", "/api/leaderboards"} {
		w := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestDeckRoutes(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)

	w := f.do(t, http.MethodPost, "/api/decks", "alice", CreateDeckRequest{Name: "Dutch", CardsText: "Kat | Cat"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[service.DeckWithCards](t, w)
	assert.Equal(t, "Dutch", created.Deck.Name)
	assert.Equal(t, "Kat | Cat", f.decks.lastCards)
	deckPath := "/api/decks/" + created.Deck.ID.String()

	w = f.do(t, http.MethodGet, deckPath, "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, deckPath, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Deck not found", decodeBody[map[string]any](t, w)["error"])

	w = f.do(t, http.MethodGet, "/api/decks", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Deck](t, w), 1)

	w = f.do(t, http.MethodDelete, deckPath, "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeckRoutes_BadRequests(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"missing name", http.MethodPost, "/api/decks", CreateDeckRequest{}, http.StatusBadRequest, "Invalid Name: required field"},
		{"malformed body", http.MethodPost, "/api/decks", `{"name":`, http.StatusBadRequest, "Invalid request format"},
		{"empty body", http.MethodPost, "/api/decks", nil, http.StatusBadRequest, "Invalid request format"},
		{"bad deck id", http.MethodGet, "/api/decks/not-a-uuid", nil, http.StatusBadRequest, "Invalid ID"},
		{"bad card id", http.MethodDelete, "/api/decks/" + uuid.NewString() + "/cards/xyz", nil, http.StatusBadRequest, "Invalid ID"},
		{"card not found", http.MethodDelete, "/api/decks/" + uuid.NewString() + "/cards/" + uuid.NewString(), nil, http.StatusNotFound, "Card not found"},
		{"too few cards for quiz", http.MethodGet, "/api/decks/" + uuid.NewString() + "/quiz", nil, http.StatusBadRequest, "Test mode needs at least 4 cards"},
		{"negative limit", http.MethodGet, "/api/sessions?limit=-1", nil, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, "alice", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[map[string]any](t, w)["error"])
			}
		})
	}
}

func TestBulkImport(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)
	path := "/api/decks/" + uuid.NewString() + "/cards/bulk"

	w := f.do(t, http.MethodPost, path, "alice", BulkCardsRequest{Text: "Hond | Dog"})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody[BulkCardsResponse](t, w)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "1 cards added", resp.Message)

	f.cards.bulkErr = service.ErrNoCardsParsed
	w = f.do(t, http.MethodPost, path, "alice", BulkCardsRequest{Text: "nothing to parse here"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubmitSession(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)
	path := "/api/decks/" + uuid.NewString() + "/sessions"
	cardID := uuid.New()

	w := f.do(t, http.MethodPost, path, "alice", SubmitSessionRequest{
		Mode:    domain.StudyModeTest,
		Answers: []service.Answer{{CardID: cardID, Answer: "Limburg"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	outcome := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 75, outcome["percentage"])
	assert.Equal(t, true, outcome["passed"])
	assert.Equal(t, cardID, f.study.lastSubmission.Answers[0].CardID)

	w = f.do(t, http.MethodPost, path, "alice", `{"mode":"test","answers":[{"answer":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/sessions?limit=3", "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, f.study.lastLimit)
}

func TestGenerateRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"timeout", service.NewServiceError("generation", "generate", "timed out", generation.ErrTimeout), http.StatusGatewayTimeout},
		{"ollama down", service.NewServiceError("generation", "generate", "down", generation.ErrUnavailable), http.StatusServiceUnavailable},
		{"nothing parsed", service.ErrNoCardsParsed, http.StatusUnprocessableEntity},
		{"bad request", generation.ErrInvalidRequest, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newRouterFixture(t, fakeGenerationService{err: tt.err}, nil)
			w := f.do(t, http.MethodPost, "/api/generate", "alice", GenerateRequest{Description: "dutch animals", Count: 5})
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestChallengeRoutes(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)

	w := f.do(t, http.MethodPost, "/api/challenges", "alice", CreateChallengeRequest{DeckID: uuid.New(), ChallengedID: "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot challenge yourself", decodeBody[map[string]any](t, w)["error"])

	w = f.do(t, http.MethodPost, "/api/challenges", "alice", CreateChallengeRequest{DeckID: uuid.New(), ChallengedID: "bob"})
	assert.Equal(t, http.StatusCreated, w.Code)

	declinePath := "/api/challenges/" + uuid.NewString() + "/decline"
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, declinePath, "carol", nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, declinePath, "bob", nil).Code)
}

func TestLeaderboardsAndRecovery(t *testing.T) {
	t.Parallel()
	f := newRouterFixture(t, fakeGenerationService{}, nil)

	w := f.do(t, http.MethodGet, "/api/leaderboards", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	boards := decodeBody[service.Leaderboards](t, w)
	assert.Equal(t, "bob", boards.Global[0].UserID)

	// The template fake does not implement All; the panic is recovered.
	w = f.do(t, http.MethodGet, "/api/templates", "alice", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
