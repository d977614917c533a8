package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SlogAdapter implements the Logger interface using Go's standard slog library.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new logger based on the application configuration.
func NewSlogAdapter(env string, level string) *SlogAdapter {
	return newSlogAdapter(os.Stdout, env, level)
}

// NewSlogAdapterWithWriter is NewSlogAdapter writing to w instead of stdout.
func NewSlogAdapterWithWriter(w io.Writer, env string, level string) *SlogAdapter {
	return newSlogAdapter(w, env, level)
}

func newSlogAdapter(w io.Writer, env string, level string) *SlogAdapter {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: redactAttr,
	}

	var handler slog.Handler
	if env == "development" {
		// Human-readable output for local work.
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &SlogAdapter{
		logger: slog.New(handler),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactedKeys are attribute keys whose values never reach the log output.
var redactedKeys = map[string]bool{
	"authorization":  true,
	"token":          true,
	"access_token":   true,
	"password":       true,
	"secret":         true,
	"cookie":         true,
	"database_url":   true,
	"redis_password": true,
	"email":          true,
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	if redactedKeys[key] ||
		strings.HasSuffix(key, "_token") ||
		strings.HasSuffix(key, "_secret") ||
		strings.HasSuffix(key, "_password") {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}

// Debug logs a message at debug level
func (s *SlogAdapter) Debug(ctx context.Context, msg string, args ...any) {
	s.logger.DebugContext(ctx, msg, args...)
}

// Info logs a message at info level
func (s *SlogAdapter) Info(ctx context.Context, msg string, args ...any) {
	s.logger.InfoContext(ctx, msg, args...)
}

// Warn logs a message at warn level
func (s *SlogAdapter) Warn(ctx context.Context, msg string, args ...any) {
	s.logger.WarnContext(ctx, msg, args...)
}

// Error logs a message at error level
func (s *SlogAdapter) Error(ctx context.Context, msg string, args ...any) {
	s.logger.ErrorContext(ctx, msg, args...)
}
