// Package logging installs the process logger described by the [log] config
// section and hands out component loggers.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hostelpass/internal/config"
	"hostelpass/internal/errors"
)

// stateLogFile is relative to XDG_STATE_HOME and used when log.file is empty.
const stateLogFile = "hostelpass/hostelpass.log"

// levels is indexed by log.verbosity; anything past the end is trace.
var levels = [...]zerolog.Level{zerolog.WarnLevel, zerolog.InfoLevel, zerolog.DebugLevel}

func Level(verbosity int) zerolog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity < len(levels) {
		return levels[verbosity]
	}
	return zerolog.TraceLevel
}

// Setup points the global logger at stderr and the configured log file. The
// returned closer releases the file. If the file cannot be opened the logger
// stays console-only and says so.
func Setup(cfg config.LogConfig) io.Closer {
	zerolog.SetGlobalLevel(Level(cfg.Verbosity))

	path := cfg.File
	if path == "" {
		path = StatePath()
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	var closer io.Closer = nopCloser{}
	file, fileErr := appendFile(path)
	if fileErr == nil {
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, console only")
	}
	return closer
}

// GetLogger returns a logger tagged with the component name. Call it after
// Setup; earlier loggers keep the previous output.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// StatePath is the default log file under XDG_STATE_HOME.
func StatePath() string {
	path, err := xdg.StateFile(stateLogFile)
	if err != nil {
		return filepath.Base(stateLogFile)
	}
	return path
}

// Timed logs op as started and returns a func that records how it ended:
// info with the duration on success, error with the cause otherwise.
func Timed(logger zerolog.Logger, op string) func(error) {
	start := time.Now()
	logger.Debug().Str("op", op).Msg("Started")
	return func(err error) {
		ev := logger.Info()
		if err != nil {
			ev = logger.Error().Err(err)
		}
		ev.Str("op", op).Dur("took", time.Since(start)).Msg("Finished")
	}
}

func appendFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "create log directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "open log file %s", path)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
