// Package logging builds the zerolog loggers used by the registry, the script
// bridge and the commands.
//
//	log := logging.New(logging.Config{Level: "debug", Format: "console"}, os.Stderr)
//	log.Warn().Str("event", name).Msg("duplicate registered event")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Nop discards every record.
var Nop = zerolog.Nop()

// Config holds logger options. Fields are read with the CREATUREEVENTS_
// prefix by the command entrypoint.
type Config struct {
	// Level is the minimum level to output (trace, debug, info, warn, error, disabled).
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is json, console or auto (console when writing to a terminal).
	Format string `env:"LOG_FORMAT" envDefault:"auto"`
	// NoColor disables color in console output.
	NoColor bool `env:"NO_COLOR"`
}

// New creates a logger writing to w. A nil w writes to stderr.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if useConsole(cfg.Format, w) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

func useConsole(format string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "pretty":
		return true
	case "json":
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
