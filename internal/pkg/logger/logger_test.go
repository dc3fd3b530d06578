package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseLevel("loud")
	assert.False(t, ok)
	assert.Equal(t, zapcore.InfoLevel, got)
}

func TestSlogAdapterUsesGlobalLogger(t *testing.T) {
	zl, err := Init("debug")
	assert.NoError(t, err)
	assert.NotNil(t, zl)
	assert.Same(t, zl, Zap())

	l := NewSlogAdapter()
	l.Debug("debug message", "key", "value")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")
}

func TestSlogAdapterPrependsAttrs(t *testing.T) {
	a := NewSlogAdapter("component", "test").(*slogAdapter)
	args := []any{"key", "value"}
	assert.Equal(t, []any{"component", "test", "key", "value"}, a.with(args))
	assert.Equal(t, []any{"key", "value"}, args)

	plain := NewSlogAdapter().(*slogAdapter)
	assert.Equal(t, args, plain.with(args))
}
