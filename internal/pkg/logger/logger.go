package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *slog.Logger // Один глобальный логгер поверх zap
	zapLogger    *zap.Logger
	mu           sync.Mutex
)

// ParseLevel maps a config level string onto a zap level, defaulting to INFO.
func ParseLevel(levelStr string) (zapcore.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO", "":
		return zapcore.InfoLevel, true
	case "WARN", "WARNING":
		return zapcore.WarnLevel, true
	case "ERROR":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Init builds the zap logger for the given level and installs it as the global slog logger.
// Debug level uses zap's development encoder, every other level the production JSON encoder.
func Init(levelStr string) (*zap.Logger, error) {
	level, ok := ParseLevel(levelStr)

	cfg := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	zapLogger = zl
	globalLogger = slog.New(zapslog.NewHandler(zl.Core()))
	slog.SetDefault(globalLogger)
	mu.Unlock()

	if !ok {
		Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}
	return zl, nil
}

// Zap returns the underlying zap logger, initializing it with INFO if needed.
func Zap() *zap.Logger {
	ensureInitialized()
	mu.Lock()
	defer mu.Unlock()
	return zapLogger
}

// Sync flushes buffered zap entries.
func Sync() {
	mu.Lock()
	zl := zapLogger
	mu.Unlock()
	if zl != nil {
		_ = zl.Sync()
	}
}

// ensureInitialized проверяет, инициализирован ли логгер.
func ensureInitialized() {
	mu.Lock()
	initialized := globalLogger != nil
	mu.Unlock()
	if !initialized {
		if _, err := Init("INFO"); err != nil {
			mu.Lock()
			globalLogger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
			zapLogger = zap.NewNop()
			mu.Unlock()
		}
	}
}

func current() *slog.Logger {
	ensureInitialized()
	mu.Lock()
	defer mu.Unlock()
	return globalLogger
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	l := current()
	if l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}
