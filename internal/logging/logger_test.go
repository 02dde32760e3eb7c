package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{zap: zap.New(core)}, logs
}

func TestNew_ValidatesConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Level: "info", Format: "json"},
		{Level: "debug", Format: "console"},
	} {
		l, err := New(cfg)
		require.NoError(t, err)
		require.NotNil(t, l)
	}

	_, err := New(Config{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestLogger_RequestIDFromContext(t *testing.T) {
	l, logs := observedLogger(zapcore.InfoLevel)

	ctx := WithRequestID(context.Background(), "req-42")
	l.Info(ctx, "handled")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "handled", entries[0].Message)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestLogger_NoRequestID(t *testing.T) {
	l, logs := observedLogger(zapcore.InfoLevel)

	l.Info(context.Background(), "plain")

	entries := logs.All()
	require.Len(t, entries, 1)
	_, ok := entries[0].ContextMap()["request_id"]
	assert.False(t, ok)
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, logs := observedLogger(zapcore.WarnLevel)

	l.Debug(context.Background(), "hidden")
	l.Warn(context.Background(), "shown")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestRequestID_Accessors(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
}
