// Package logging builds the structured loggers shared by the CLI, the
// generator and the SSH server.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New creates a timestamped logger writing to w with the given prefix.
// A nil writer logs to stderr.
func New(w io.Writer, level, prefix string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           lvl,
	}), nil
}

// Discard returns a logger that drops every message.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
