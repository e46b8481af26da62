package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashdeck-api/internal/cardtext"
	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func staticConfig(cfg *config.Config) configLoader {
	return func() (*config.Config, error) { return cfg, nil }
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 5},
		LLM: config.LLMConfig{
			Provider:        "ollama",
			OllamaEndpoints: []string{"http://127.0.0.1:1"},
			OllamaModel:     "gemma3:270m",
			TimeoutSeconds:  5,
		},
	}
}

// execute runs the CLI with args and stdin, returning stdout.
func execute(t *testing.T, load configLoader, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(load)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func decodeParse(t *testing.T, out string) parseOutput {
	t.Helper()
	var p parseOutput
	require.NoError(t, json.Unmarshal([]byte(out), &p), out)
	return p
}

func TestParseCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  []cardtext.Card
	}{
		{
			name:  "normalizes by default",
			stdin: "1. Hond | Dog\n2. Kat | Cat\n",
			args:  []string{"parse"},
			want:  []cardtext.Card{{Front: "hond", Back: "dog"}, {Front: "kat", Back: "cat"}},
		},
		{
			name:  "preserves case",
			stdin: "Den Haag | The Hague",
			args:  []string{"parse", "--preserve-case"},
			want:  []cardtext.Card{{Front: "Den Haag", Back: "The Hague"}},
		},
		{
			name:  "max truncates",
			stdin: "a1 | b1\na2 | b2\na3 | b3",
			args:  []string{"parse", "--max", "2"},
			want:  []cardtext.Card{{Front: "a1", Back: "b1"}, {Front: "a2", Back: "b2"}},
		},
		{
			name:  "nothing parsed",
			stdin: "just a sentence",
			args:  []string{"parse"},
			want:  []cardtext.Card{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := execute(t, staticConfig(testConfig()), tt.stdin, tt.args...)
			require.NoError(t, err)
			got := decodeParse(t, out)
			assert.Equal(t, tt.want, got.Cards)
			assert.Equal(t, len(tt.want), got.Count)
		})
	}
}

func TestParseCmd_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cards.txt")
	require.NoError(t, os.WriteFile(path, []byte("Appel; Apple\nPeer; Pear\n"), 0o600))

	out, err := execute(t, staticConfig(testConfig()), "", "parse", path)
	require.NoError(t, err)
	assert.Equal(t, 2, decodeParse(t, out).Count)

	_, err = execute(t, staticConfig(testConfig()), "", "parse", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to open input")
}

func TestTokenCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, staticConfig(testConfig()), "", "token", "--user", "user_42")
	require.NoError(t, err)

	jwt, err := auth.NewJWTService(testConfig().Auth)
	require.NoError(t, err)
	claims, err := jwt.ValidateToken(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user_42", claims.UserID)

	_, err = execute(t, staticConfig(testConfig()), "", "token")
	assert.ErrorContains(t, err, `required flag(s) "user" not set`)

	weak := testConfig()
	weak.Auth.JWTSecret = "short"
	_, err = execute(t, staticConfig(weak), "", "token", "--user", "user_42")
	assert.Error(t, err)

	_, err = execute(t, func() (*config.Config, error) { return nil, errors.New("boom") }, "", "token", "--user", "u")
	assert.EqualError(t, err, "boom")
}

func tagsServer(t *testing.T, models ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		type model struct {
			Name string `json:"name"`
		}
		resp := struct {
			Models []model `json:"models"`
		}{}
		for _, m := range models {
			resp.Models = append(resp.Models, model{Name: m})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckAICmd(t *testing.T) {
	t.Parallel()

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		srv := tagsServer(t, "gemma3:270m", "llama3:8b")
		out, err := execute(t, staticConfig(testConfig()), "", "check-ai", "--endpoint", srv.URL)
		require.NoError(t, err)
		assert.Contains(t, out, "2 models installed")
		assert.Contains(t, out, "gemma3:270m is installed")
	})

	t.Run("model missing", func(t *testing.T) {
		t.Parallel()
		srv := tagsServer(t, "llama3:8b")
		out, err := execute(t, staticConfig(testConfig()), "", "check-ai", "--endpoint", srv.URL)
		assert.ErrorIs(t, err, errModelMissing)
		assert.Contains(t, out, "ollama pull gemma3:270m")
	})

	t.Run("model flag without tag", func(t *testing.T) {
		t.Parallel()
		srv := tagsServer(t, "llama3:8b")
		_, err := execute(t, staticConfig(testConfig()), "", "check-ai", "--endpoint", srv.URL, "--model", "llama3")
		assert.NoError(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		out, err := execute(t, staticConfig(testConfig()), "", "check-ai", "--endpoint", url)
		assert.ErrorIs(t, err, errOllamaUnreachable)
		assert.Contains(t, out, "ollama serve")
	})
}

func TestSampleDeckText(t *testing.T) {
	t.Parallel()

	cards := cardtext.ParsePreservingCase(sampleDeckText())
	require.Len(t, cards, len(sampleCities))
	assert.Equal(t, cardtext.Card{Front: "Den Haag", Back: "Zuid-Holland"}, cards[2])
}

func TestSeedCmd_RequiresUserAndDatabase(t *testing.T) {
	t.Parallel()

	_, err := execute(t, staticConfig(testConfig()), "", "seed")
	assert.ErrorContains(t, err, `required flag(s) "user" not set`)

	_, err = execute(t, staticConfig(testConfig()), "", "seed", "--user", "user_42")
	assert.ErrorContains(t, err, "config validation failed")
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	srv := tagsServer(t, "gemma3:270m")
	_, err := execute(t, staticConfig(testConfig()), "", "check-ai", "--endpoint", srv.URL, "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid --log-level")
}
