package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

func init() {
	Configure(os.Getenv("ENVIRONMENT"))
}

// Configure rebuilds the global logger. Development gets the console encoder
// and debug level, everything else gets JSON at info level.
func Configure(environment string) {
	var (
		base *zap.Logger
		err  error
	)
	if environment == "development" {
		base, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		base, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		base = zap.NewNop()
	}

	mu.Lock()
	sugar = base.Sugar()
	mu.Unlock()
}

// Replace swaps the backing logger, mainly for tests.
func Replace(l *zap.Logger) {
	mu.Lock()
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
	mu.Unlock()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(format string, v ...interface{}) {
	get().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	get().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	get().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	get().Warnf(format, v...)
}

// With returns a structured logger carrying the given key/value pairs.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return get().With(keysAndValues...)
}

// Sync flushes buffered entries; call it on shutdown.
func Sync() {
	_ = get().Sync()
}

// LogTrackingError records a best-effort write that failed without affecting the caller.
func LogTrackingError(action, key string, err error) {
	get().Warnw("tracking write failed", "action", action, "key", key, "error", err)
}
