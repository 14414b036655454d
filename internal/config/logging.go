package config

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds a host logger writing to w. The level comes from
// STARFALL_LOG_LEVEL and defaults to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(GetEnv("STARFALL_LOG_LEVEL", "info")))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          prefix,
		Level:           level,
	})
}
