// Package log is a thin wrapper around a package-level zap.Logger, matching
// the call shape the rest of agrizone uses everywhere: log.Info(tag+"msg",
// zap.String(...), ...). It exists so components never import zap directly
// for the logger itself, only for field constructors.
package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu sync.RWMutex
	l  *zap.Logger = mustBuild()
)

func mustBuild() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger lets a host process swap in its own configured *zap.Logger
// (rotation, sinks, level) without agrizone knowing anything about it.
// Logging sink configuration is a collaborator concern; this is the seam.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	l = logger
	mu.Unlock()
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return l
}

func Debug(msg string, fields ...zap.Field) {
	get().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	get().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	get().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	get().Error(msg, fields...)
}

// Sync flushes any buffered log entries. Collaborators should call this
// before process exit; the core never calls it itself.
func Sync() error {
	return get().Sync()
}
