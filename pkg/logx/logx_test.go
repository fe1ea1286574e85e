package logx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, lvl zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(lvl)
	restore := Replace(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestInfof(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Infof("scheduled interview %s", "iv-1")
	Debug("hidden")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "scheduled interview iv-1", logs.All()[0].Message)
}

func TestWith_CarriesFields(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	log := With(map[string]any{"application_id": "a-1"})
	log.WithError(errors.New("boom")).Warn("mirror write failed")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	ctx := entry.ContextMap()
	assert.Equal(t, "a-1", ctx["application_id"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestFatalf_Exits(t *testing.T) {
	observe(t, zapcore.InfoLevel)
	code := 0
	prev := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = prev })

	Fatalf("cannot start: %s", "no db")

	assert.Equal(t, 1, code)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
