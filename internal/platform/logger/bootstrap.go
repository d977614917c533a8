package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// BootstrapLogger is a simple logger used during application startup
// before the main configuration is loaded. It has zero dependencies.
type BootstrapLogger struct {
	logger *log.Logger
}

// NewBootstrapLogger creates a simple logger for bootstrap phase
func NewBootstrapLogger() *BootstrapLogger {
	return &BootstrapLogger{
		logger: log.New(os.Stdout, "[BOOTSTRAP] ", log.LstdFlags|log.Lshortfile),
	}
}

// Debug logs a message at debug level
func (b *BootstrapLogger) Debug(ctx context.Context, msg string, args ...any) {
	b.print("DEBUG", msg, args)
}

// Info logs a message at info level
func (b *BootstrapLogger) Info(ctx context.Context, msg string, args ...any) {
	b.print("INFO", msg, args)
}

// Warn logs a message at warn level
func (b *BootstrapLogger) Warn(ctx context.Context, msg string, args ...any) {
	b.print("WARN", msg, args)
}

// Error logs a message at error level
func (b *BootstrapLogger) Error(ctx context.Context, msg string, args ...any) {
	b.print("ERROR", msg, args)
}

// print renders args as key=value pairs; sensitive keys are masked the same
// way the slog adapter masks them.
func (b *BootstrapLogger) print(level, msg string, args []any) {
	var sb strings.Builder
	for i := 0; i+1 < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		value := args[i+1]
		if redactedKeys[strings.ToLower(key)] {
			value = "[REDACTED]"
		}
		fmt.Fprintf(&sb, " %s=%v", key, value)
	}
	_ = b.logger.Output(3, level+": "+msg+sb.String())
}

// Ensure BootstrapLogger implements Logger interface
var _ Logger = (*BootstrapLogger)(nil)
