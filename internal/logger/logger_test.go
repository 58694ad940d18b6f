package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("loud")
	require.False(t, ok)
}

// TestContextCarriesNameAndFields checks that WithName and WithKV decorate later entries.
func TestContextCarriesNameAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, zapcore.DebugLevel)

	ctx := ToContext(context.Background(), l)
	ctx = WithName(ctx, "engine")
	ctx = WithKV(ctx, "run", "abc")

	InfoKV(ctx, "iteration done", "iteration", 3)
	require.NoError(t, FromContext(ctx).Sync())

	out := buf.String()
	require.Contains(t, out, "engine")
	require.Contains(t, out, "iteration done")
	require.Contains(t, out, `"run": "abc"`)
	require.Contains(t, out, `"iteration": 3`)
}

// TestFromContextFallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}
