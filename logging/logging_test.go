package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Log(context.Background(), LevelError, "dropped", String("k", "v"))
	})
}

func TestZapLevelsAndFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewZap(zap.New(core))
	ctx := context.Background()

	l.Log(ctx, LevelDebug, "debug message")
	l.Log(ctx, LevelInfo, "info message", String("request_id", "req-1"), Int64("n", 3))
	l.Log(ctx, LevelWarn, "warn message")
	l.Log(ctx, LevelError, "error message", Err(errors.New("boom")))

	entries := observed.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "req-1", entries[1].ContextMap()["request_id"])
	assert.EqualValues(t, 3, entries[1].ContextMap()["n"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
}

func TestZapNilFallsBackToNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewZap(nil).Log(context.Background(), LevelInfo, "message")
	})
}

func TestLogrusLevelsAndFields(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	l := NewLogrus(logger)
	ctx := context.Background()

	l.Log(ctx, LevelInfo, "info message", String("alg", "HS256"))
	l.Log(ctx, LevelWarn, "warn message")
	l.Log(ctx, LevelDebug, "debug message")

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "info message", entries[0].Message)
	assert.Equal(t, "HS256", entries[0].Data["alg"])
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, logrus.DebugLevel, entries[2].Level)
}

func TestLogrusWritesText(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	NewLogrus(logger).Log(context.Background(), LevelError, "failed", String("code", "E_JWT"))
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "code=E_JWT")
}
