// Package logging builds the application logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a [log.Logger] writing to w with timestamps enabled. The writer
// defaults to [os.Stderr]; an unknown level falls back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name such as "debug" or "warn" to a [log.Level].
func ParseLevel(level string) log.Level {
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// OrDefault returns l, or the package-level default logger when l is nil.
func OrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
