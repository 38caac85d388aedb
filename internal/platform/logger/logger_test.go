package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		l, err := New(mode, "warn")
		require.NoError(t, err, mode)
		assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.WarnLevel))
	}
	_, err := New("development", "loud")
	assert.Error(t, err)
}

func TestWithAndPrintfAdapters(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("mode", "expert").Info("guess", "code", "01001")
	l.Warningf("badger %s\n", "compaction")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "guess", entries[0].Message)
	assert.Equal(t, "expert", entries[0].ContextMap()["mode"])
	assert.Equal(t, "01001", entries[0].ContextMap()["code"])
	assert.Equal(t, "badger compaction", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
