package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/splashpad/lesson-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestSetupReturnsLogger(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "info", LogFormat: "json"})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Same(t, log, slog.Default())
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWithContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, log, FromContextOrDefault(ctx, slog.Default()))
}

func TestFromContextOrDefaultPrefersProvided(t *testing.T) {
	var buf bytes.Buffer
	def := slog.New(slog.NewJSONHandler(&buf, nil))

	assert.Same(t, def, FromContextOrDefault(context.Background(), def))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
}
