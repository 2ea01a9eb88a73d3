// ABOUTME: Structured logger construction for trail
// ABOUTME: Wraps charmbracelet/log with the project prefix and level parsing

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel overrides the configured log level when set.
const EnvLevel = "TRAIL_LOG_LEVEL"

// New returns a logger writing to w at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "trail",
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a log.Level, honoring TRAIL_LOG_LEVEL.
func ParseLevel(level string) log.Level {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDefault returns l, or the package default logger when l is nil.
func OrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
