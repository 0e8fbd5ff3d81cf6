package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a config level name onto a log level, defaulting to info
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SetupLogger configures a charmbracelet logger writing to stderr
func SetupLogger(level string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
	})
}

// SetupFileLogger configures a logger appending to filename, for modes where
// the terminal is taken. An empty filename discards output. The returned
// closer releases the file.
func SetupFileLogger(level, filename string) (*log.Logger, io.Closer, error) {
	if filename == "" {
		return log.NewWithOptions(io.Discard, log.Options{}), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f, nil
}
