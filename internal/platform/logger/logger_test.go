package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := logger.ParseLevel(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
		} else {
			assert.NoError(t, err, tc.in)
		}
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	l, err := logger.Setup(config.ServerConfig{LogLevel: "debug"})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))

	l, err = logger.Setup(config.ServerConfig{LogLevel: "nonsense"})
	require.NoError(t, err)
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
}

func TestNew_WritesJSON(t *testing.T) {
	t.Parallel()

	buf := &logger.LogBuffer{}
	l := logger.New(buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Info("card parsed", "count", 3)

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "card parsed", entries[0]["msg"])
	assert.InDelta(t, 3, entries[0]["count"], 0)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	buf := &logger.LogBuffer{}
	base := logger.New(buf, slog.LevelDebug)
	fallback := logger.New(&logger.LogBuffer{}, slog.LevelDebug)

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))

	ctx := logger.WithLogger(context.Background(), base)
	assert.Same(t, base, logger.FromContext(ctx))
	assert.Same(t, base, logger.FromContextOrDefault(ctx, fallback))

	ctx = logger.WithTraceID(ctx, "trace-123")
	assert.Equal(t, "trace-123", logger.TraceID(ctx))
	assert.Empty(t, logger.TraceID(context.Background()))

	logger.FromContext(ctx).Info("with trace")
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "trace-123", entries[0]["trace_id"])
}
