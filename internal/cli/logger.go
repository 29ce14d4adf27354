// Package cli provides the command-line interface for wait-for-vercel-preview.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/coprime/wait-for-vercel-preview/internal/constants"
	"github.com/coprime/wait-for-vercel-preview/internal/logging"
)

// logFileWriter holds the log file writer for cleanup purposes.
// This is package-level to enable cleanup during shutdown.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// InitLogger creates and configures a zerolog.Logger based on verbosity flags.
//
// Log levels are set as follows:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level (normal operation)
//
// Output format is determined by the terminal:
//   - TTY with colors enabled: Console writer with timestamps
//   - Non-TTY or NO_COLOR set: JSON output to stderr (the CI case)
//
// Every run is stamped with a run_id so log lines stay attributable when the
// runner interleaves output from concurrent steps.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	logger := buildLogger(selectOutput(), verbose, quiet)
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter creates and configures a zerolog.Logger with a custom
// writer. This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := buildLogger(w, verbose, quiet)
	setGlobalLogger(logger)
	return logger
}

// AttachLogFile adds a rotating file sink to the logger. The sink is wrapped
// in the redaction writer so credentials never reach disk. The log file path
// is itself a step input, so this runs after configuration is loaded.
//
// Failure to open the sink is not fatal; the returned logger keeps
// console-only output in that case.
func AttachLogFile(logger zerolog.Logger, path string) zerolog.Logger {
	writer, err := createLogFileWriter(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("log file disabled")
		return logger
	}

	logFileWriter = writer
	logger = logger.Output(zerolog.MultiLevelWriter(selectOutput(), writer))
	setGlobalLogger(logger)
	return logger
}

// CloseLogFile closes the log file writer if it was opened.
// This should be called during shutdown for clean cleanup.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// buildLogger assembles the run logger: level, redaction hook, timestamp,
// and the run identity.
func buildLogger(w io.Writer, verbose, quiet bool) zerolog.Logger {
	return zerolog.New(w).
		Level(selectLevel(verbose, quiet)).
		Hook(logging.NewSensitiveDataHook()).
		With().
		Timestamp().
		Str("run_id", uuid.New().String()[:8]).
		Logger()
}

// setGlobalLogger points the zerolog package-level logger at the CLI logger
// so stray log.Debug()/log.Info() calls share the same formatting.
func setGlobalLogger(logger zerolog.Logger) {
	log.Logger = logger
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput determines the appropriate output writer based on
// terminal capabilities and environment settings.
func selectOutput() io.Writer {
	// Use console writer for TTY without NO_COLOR
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}

	// Default to JSON output for non-TTY or when NO_COLOR is set
	return os.Stderr
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering.
// It implements io.WriteCloser so it can be used as a drop-in replacement.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

// Write implements io.Writer by delegating to the filtering writer.
func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

// Close implements io.Closer by delegating to the underlying closer.
func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter creates a rotating file writer for the debug log,
// wrapped with a filtering writer so sensitive data is never written to disk.
func createLogFileWriter(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}
