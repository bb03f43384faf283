// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Config selects the global logger's level, format and decorations.
type Config struct {
	// Level is trace, debug, info, warn, error, fatal, panic or disabled.
	// Unknown or empty values select info.
	Level string

	// Format is json or console. Empty selects json.
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	// Timestamp adds a "time" field in RFC 3339.
	Timestamp bool

	// Output receives log lines. Nil selects os.Stderr.
	Output io.Writer
}

// DefaultConfig is the configuration in effect before Init: info level
// JSON with timestamps on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// global holds the process logger. It is replaced wholesale by Init, so
// readers never observe a half-configured logger.
var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // the host logs before config is loaded
func init() {
	Init(DefaultConfig())
}

// Init builds the global logger from cfg and sets the zerolog global level.
// It may be called again to reconfigure.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(out).With().Str("service", "faqrec")
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	logger := lc.Logger()

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	global.Store(&logger)
}

// parseLevel accepts zerolog's level names plus "warning". Anything it
// does not recognise selects info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zerolog.WarnLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Logger returns the global logger. Library constructors take it by value:
//
//	engine, err := recommend.NewEngine(&cfg, nil, logging.Logger())
func Logger() zerolog.Logger {
	return *global.Load()
}

// Info starts an info entry on the global logger.
//
//	logging.Info().Int("questions", n).Msg("Corpus loaded")
func Info() *zerolog.Event {
	return global.Load().Info()
}

// Warn starts a warn entry on the global logger.
func Warn() *zerolog.Event {
	return global.Load().Warn()
}

// Error starts an error entry on the global logger.
func Error() *zerolog.Event {
	return global.Load().Error()
}

// Fatal starts a fatal entry; os.Exit(1) follows Msg.
func Fatal() *zerolog.Event {
	return global.Load().Fatal()
}

// GetLevel returns the zerolog global level.
func GetLevel() zerolog.Level {
	return zerolog.GlobalLevel()
}

// SetLevelString changes the global level without rebuilding the logger.
// The config watcher applies LOG_LEVEL edits through it.
func SetLevelString(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}
