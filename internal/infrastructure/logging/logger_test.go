package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			l, err := New(Config{Level: level})
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(mustLevel(t, level)))
		})
	}
}

func TestDefaultsNeverNil(t *testing.T) {
	assert.NotNil(t, NewDefault().Logger)
	assert.NotNil(t, NewDevelopment().Logger)
	assert.NotNil(t, Nop().Logger)
}

func TestSessionFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{Logger: zap.New(core)}

	l.Session("W1", 7).Info("Window created")
	l.Component("host").Warn("Host call failed")

	require.Equal(t, 2, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "W1", fields["window"])
	assert.Equal(t, int64(7), fields["persistent_id"])
	assert.Equal(t, "host", logs.All()[1].LoggerName)
}

func mustLevel(t *testing.T, s string) zapcore.Level {
	t.Helper()
	lvl, err := parseLevel(s)
	require.NoError(t, err)
	return lvl
}
