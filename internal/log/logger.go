// Package log builds the relay's zerolog loggers.
package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// levels maps the level names accepted in configuration. Anything not listed
// falls back to info.
var levels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// New returns a console logger at the named level.
func New(level string) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).
		Level(levelFromString(level)).
		With().
		Timestamp().
		Logger()
	return &logger
}

func levelFromString(name string) zerolog.Level {
	if lvl, ok := levels[strings.ToLower(name)]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}
