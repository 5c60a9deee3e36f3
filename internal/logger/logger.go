// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logLevel      = new(slog.LevelVar)
)

// handlerOptions keeps source file names short and timestamps to the time of day.
func handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
}

// Init installs an unfiltered text logger writing to output at the given level.
// A nil output discards everything.
func Init(level slog.Level, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	logLevel.Set(level)
	install(slog.NewTextHandler(output, handlerOptions()))
}

// InitWithConfig installs a text logger writing to output with cfg's level and filters.
func InitWithConfig(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	logLevel.Set(cfg.Level())
	install(newFilteringHandler(slog.NewTextHandler(output, handlerOptions()), cfg.filters()))
}

// Setup opens the log destination named by cfg and installs the logger.
// An empty path or "-" logs to stderr. The returned closer releases the file.
func Setup(cfg Config) (io.Closer, error) {
	if cfg.LogFilePath == "" || cfg.LogFilePath == "-" {
		InitWithConfig(cfg, os.Stderr)
		return nopCloser{}, nil
	}
	if dir := filepath.Dir(cfg.LogFilePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file '%s': %w", cfg.LogFilePath, err)
	}
	InitWithConfig(cfg, f)
	Infof("Logger initialized (level %s)", cfg.Level())
	return f, nil
}

// SetLevel changes the minimum level at runtime.
func SetLevel(level slog.Level) {
	logLevel.Set(level)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func install(h slog.Handler) {
	mu.Lock()
	defaultLogger = slog.New(h)
	mu.Unlock()
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// logAtLevel creates and logs a record at the specified level, capturing the correct caller source.
func logAtLevel(level slog.Level, tag string, format string, args ...interface{}) {
	l := Get()
	if !l.Enabled(context.Background(), level) {
		return
	}

	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = l.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, "", format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, "", format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, "", format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
}

// DebugTagf logs a debug message carrying a filterable tag.
func DebugTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, tag, format, args...)
}

// InfoTagf logs an info message carrying a filterable tag.
func InfoTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, tag, format, args...)
}

// WarnTagf logs a warning carrying a filterable tag.
func WarnTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, tag, format, args...)
}
