// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures SetupLogger.
type Options struct {
	Verbosity int       // 0 warn, 1 info, 2 debug, 3+ trace
	Out       io.Writer // console output (default: os.Stderr)
	LogFile   bool      // also append to LogFilePath()
}

func init() {
	// Quiet by default so library use and tests stay silent until the CLI
	// configures logging.
	log.Logger = zerolog.New(io.Discard)
}

// SetupLogger configures the global logger based on verbosity level.
func SetupLogger(opts Options) {
	switch {
	case opts.Verbosity <= 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case opts.Verbosity == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case opts.Verbosity == 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
	}}

	var fileErr error
	logFile := LogFilePath()
	if opts.LogFile {
		var f *os.File
		f, fileErr = openLogFile(logFile)
		if fileErr == nil {
			writers = append(writers, f)
		}
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}

	if opts.Verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", opts.Verbosity).Msg("Logger initialized")
}

// GetLogger returns a logger tagged with the given component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogFilePath returns $XDG_STATE_HOME/ranger/ranger.log.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, "ranger", "ranger.log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
