// Package logging builds the framework's structured logger.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. level is one of debug, info, warn,
// error (anything else means info); format is "json" or text.
//
//	logger := logging.New(cfg.Autowire.LogLevel, cfg.Autowire.LogFormat, os.Stderr)
func New(level, format string, w io.Writer) *log.Logger {
	opts := log.Options{
		Level:           ParseLevel(level),
		Prefix:          "autowire",
		ReportTimestamp: true,
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts)
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
