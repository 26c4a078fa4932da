package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "NONE", LevelNone.String())
	assert.Contains(t, Level(42).String(), "UNKNOWN")
}

func TestGologLogger_LevelControl(t *testing.T) {
	logger := NewGologLogger(LevelInfo)
	assert.Equal(t, LevelInfo, logger.GetLevel())

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())

	logger.SetLevel(LevelNone)
	assert.Equal(t, LevelNone, logger.GetLevel())
}

func TestGologLogger_Logging(t *testing.T) {
	logger := NewGologLogger(LevelDebug)

	// These should not panic at any level.
	logger.Debug("debug: %s", "x")
	logger.Info("info: %d", 42)
	logger.Warn("warn: %v", []string{"a"})
	logger.Error("error: %f", 3.14)

	logger.SetLevel(LevelNone)
	logger.Error("suppressed")
}

func TestDefaultLogger(t *testing.T) {
	orig := GetDefaultLogger()
	defer SetDefaultLogger(orig)

	noop := &NoOpLogger{}
	SetDefaultLogger(noop)
	assert.Equal(t, Logger(noop), GetDefaultLogger())

	// Package-level helpers route to the noop without panicking.
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
}
