// Package logging builds the zerolog loggers shared by the CLI, the prover
// and gnark itself.
package logging

import (
	"io"
	"os"
	"time"

	gnarklog "github.com/consensys/gnark/logger"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at level. Output is JSON when
// json is set or stderr is not a terminal, and human readable otherwise.
// gnark's compile and prove logs are routed through the same logger.
func New(level string, json bool) (zerolog.Logger, error) {
	tty := isatty.IsTerminal(os.Stderr.Fd())
	log, err := NewWithWriter(os.Stderr, level, json || !tty)
	if err != nil {
		return log, err
	}
	gnarklog.Set(log.With().Str("module", "gnark").Logger())
	return log, nil
}

// NewWithWriter is New without the global gnark hook.
func NewWithWriter(w io.Writer, level string, json bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Module returns a child logger tagged with a subsystem name.
func Module(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("module", name).Logger()
}

// Silence disables gnark's internal logger. Used by tests and benchmarks.
func Silence() {
	gnarklog.Disable()
}
