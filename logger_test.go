package idtoken

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(observed).Sugar())

	logger.Debug("debug", "kid", "k1")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", "code", "invalid_key", "keys", 2)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, map[string]any{"kid": "k1"}, entries[0].ContextMap())
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "error", entries[3].Message)
	assert.Equal(t, map[string]any{"code": "invalid_key", "keys": int64(2)}, entries[3].ContextMap())
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.Warn("Key set refresh failed", "error", errors.New("boom"), "attempt", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Key set refresh failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 1, entry["attempt"])
}

func TestLogrusLogger(t *testing.T) {
	base, hook := logrustest.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	logger := NewLogrusLogger(base)

	logger.Debug("debug", "kid", "k1")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, logrus.Fields{"kid": "k1"}, hook.LastEntry().Data)

	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", "dangling")
	assert.Len(t, hook.AllEntries(), 4)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, logrus.Fields{"!BADKEY": "dangling"}, hook.LastEntry().Data)
}

func TestFields(t *testing.T) {
	assert.Equal(t, map[string]any{}, fields(nil))
	assert.Equal(t, map[string]any{"a": 1, "2": "b"}, fields([]any{"a", 1, 2, "b"}))
	assert.Equal(t, map[string]any{"a": 1, "!BADKEY": "c"}, fields([]any{"a", 1, "c"}))
}
