// Package logging builds the process logger: console output, plus a
// rolling log file when a path is configured.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns the root logger. With an empty path it logs to the console
// only; otherwise it also writes JSON lines to a size-rotated file.
func New(path string) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}

	var w io.Writer = console
	if path != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
