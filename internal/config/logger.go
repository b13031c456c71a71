package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates the structured logger shared by a binary.
// The level is read from LOG_LEVEL and defaults to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})

	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		logger.Warn("unknown LOG_LEVEL, using info", "err", err)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
