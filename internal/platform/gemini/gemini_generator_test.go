package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/generation"
)

type call struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

type fakeModels struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     []call
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	i := len(f.calls)
	f.calls = append(f.calls, call{model: model, prompt: contents[0].Parts[0].Text, config: cfg})
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp *genai.GenerateContentResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func textResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: reason,
		}},
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:       "gemini",
		GeminiAPIKey:   "test-key",
		GeminiModel:    "gemini-2.0-flash",
		TimeoutSeconds: 5,
		MaxRetries:     2,
		Temperature:    0.8,
		MaxTokens:      4000,
	}
}

func newTestGenerator(t *testing.T, models *fakeModels) *GeminiGenerator {
	t.Helper()
	g, err := newGenerator(nil, testConfig(), models)
	require.NoError(t, err)
	g.baseDelay = time.Millisecond
	return g
}

var req = generation.Request{Description: "Dutch animals", Count: 3}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.GeminiAPIKey = ""
	_, err := NewGeminiGenerator(context.Background(), nil, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = testConfig()
	cfg.GeminiModel = ""
	_, err = newGenerator(nil, cfg, &fakeModels{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateText_Success(t *testing.T) {
	t.Parallel()

	models := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse("Hond | Dog\nKat | Cat\n", genai.FinishReasonStop),
	}}
	text, err := newTestGenerator(t, models).GenerateText(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Hond | Dog\nKat | Cat", text)

	require.Len(t, models.calls, 1)
	c := models.calls[0]
	assert.Equal(t, "gemini-2.0-flash", c.model)
	assert.Contains(t, c.prompt, `"Dutch animals"`)
	require.NotNil(t, c.config.Temperature)
	assert.InDelta(t, 0.8, *c.config.Temperature, 0.001)
	assert.Equal(t, int32(4000), c.config.MaxOutputTokens)
}

func TestGenerateText_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	models := &fakeModels{
		errs: []error{
			genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"},
			genai.APIError{Code: http.StatusInternalServerError, Message: "oops"},
		},
		responses: []*genai.GenerateContentResponse{nil, nil, textResponse("Hond | Dog", genai.FinishReasonStop)},
	}
	text, err := newTestGenerator(t, models).GenerateText(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Hond | Dog", text)
	assert.Len(t, models.calls, 3)
}

func TestGenerateText_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	transient := errors.New("connection reset by peer")
	models := &fakeModels{errs: []error{transient, transient, transient, transient}}
	_, err := newTestGenerator(t, models).GenerateText(context.Background(), req)
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Len(t, models.calls, 3)
}

func TestGenerateText_PermanentFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
		want error
	}{
		{
			name: "safety",
			resp: textResponse("", genai.FinishReasonSafety),
			want: generation.ErrContentBlocked,
		},
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			want: generation.ErrContentBlocked,
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
			want: generation.ErrInvalidResponse,
		},
		{
			name: "blank text",
			resp: textResponse("  \n", genai.FinishReasonStop),
			want: generation.ErrInvalidResponse,
		},
		{
			name: "unknown model",
			err:  genai.APIError{Code: http.StatusNotFound, Message: "models/nope is not found"},
			want: generation.ErrModelNotFound,
		},
		{
			name: "bad key",
			err:  genai.APIError{Code: http.StatusForbidden, Message: "API key not valid"},
			want: generation.ErrInvalidConfig,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			models := &fakeModels{
				responses: []*genai.GenerateContentResponse{tc.resp},
				errs:      []error{tc.err},
			}
			_, err := newTestGenerator(t, models).GenerateText(context.Background(), req)
			assert.ErrorIs(t, err, tc.want)
			assert.Len(t, models.calls, 1, "permanent failures are not retried")
		})
	}
}

func TestGenerateText_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	models := &fakeModels{errs: []error{errors.New("unavailable"), errors.New("unavailable"), errors.New("unavailable")}}
	g := newTestGenerator(t, models)
	g.baseDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := g.GenerateText(ctx, req)
	assert.ErrorIs(t, err, generation.ErrTimeout)
	assert.Len(t, models.calls, 1)
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	for attempt := range 4 {
		d := backoff(time.Second, attempt)
		full := time.Second << attempt
		assert.GreaterOrEqual(t, d, full/2)
		assert.Less(t, d, full)
	}
}
