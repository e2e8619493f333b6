// Package logging sets up the process-wide slog logger: text to the
// console, JSON to a weekly rotating file.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/giygas/disease-dashboard/config"
)

// LoggingService owns the logger and the file it writes to
type LoggingService struct {
	Logger *slog.Logger
	writer *RotatingWriter
}

// Options tunes InitLoggerWithOptions
type Options struct {
	Env            config.Environment
	Level          string // explicit console level, empty for the environment default
	Verbose        bool   // let test runs print at info
	RetentionWeeks int
	MaxFileSize    int64
}

var (
	DefaultLoggingService *LoggingService
	serviceMu             sync.Mutex
)

// InitLogger initializes the global logger with development defaults
func InitLogger(logDir string) {
	InitLoggerWithOptions(logDir, Options{
		Env:            config.EnvDevelopment,
		RetentionWeeks: 4,
		MaxFileSize:    DefaultMaxFileSize,
	})
}

// InitLoggerWithOptions replaces the global logger. If the log directory
// cannot be used, logging continues on the console only.
func InitLoggerWithOptions(logDir string, opts Options) {
	serviceMu.Lock()
	defer serviceMu.Unlock()

	if DefaultLoggingService != nil && DefaultLoggingService.writer != nil {
		_ = DefaultLoggingService.writer.Close()
	}

	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose),
	})

	retention := opts.RetentionWeeks
	if retention <= 0 {
		retention = 4
	}

	writer, err := NewRotatingWriter(logDir, retention, opts.MaxFileSize)
	if err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to initialize log file, logging to console only", "error", err)
		DefaultLoggingService = &LoggingService{Logger: logger}
		slog.SetDefault(logger)
		return
	}

	fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: GetFileLogLevel(),
	})

	logger := slog.New(&multiHandler{
		handlers: []slog.Handler{consoleHandler, fileHandler},
	})

	DefaultLoggingService = &LoggingService{Logger: logger, writer: writer}
	slog.SetDefault(logger)
}

// Close flushes and closes the log file, if there is one
func Close() error {
	serviceMu.Lock()
	defer serviceMu.Unlock()

	if DefaultLoggingService == nil || DefaultLoggingService.writer == nil {
		return nil
	}

	err := DefaultLoggingService.writer.Close()
	DefaultLoggingService.writer = nil
	return err
}

// CurrentLogFile returns the path of the active log file, or "" when
// logging to the console only
func CurrentLogFile() string {
	serviceMu.Lock()
	defer serviceMu.Unlock()

	if DefaultLoggingService == nil || DefaultLoggingService.writer == nil {
		return ""
	}
	return DefaultLoggingService.writer.CurrentFile()
}

// ResetForTest installs a fresh global logger writing into logDir and
// closes it when the test ends
func ResetForTest(t testing.TB, logDir string, env config.Environment, level string, retentionWeeks int, maxFileSize int64) {
	t.Helper()

	InitLoggerWithOptions(logDir, Options{
		Env:            env,
		Level:          level,
		Verbose:        testing.Verbose(),
		RetentionWeeks: retentionWeeks,
		MaxFileSize:    maxFileSize,
	})

	t.Cleanup(func() {
		if err := Close(); err != nil {
			t.Logf("closing test logger: %v", err)
		}
	})
}

// parseLogLevel maps a level name to slog, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetConsoleLogLevel picks the console level. Test runs stay quiet unless
// verbose; otherwise an explicit level wins over the environment default.
func GetConsoleLogLevel(env config.Environment, logLevelStr string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if logLevelStr != "" {
		return parseLogLevel(logLevelStr)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the file level; the file keeps everything
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return nil
	}
	return DefaultLoggingService.Logger
}

func fallback(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	if l := logger(); l != nil {
		l.Info(msg, args...)
		return
	}
	fallback(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	if l := logger(); l != nil {
		l.Error(msg, args...)
		return
	}
	fallback(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	if l := logger(); l != nil {
		l.Warn(msg, args...)
		return
	}
	fallback(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	if l := logger(); l != nil {
		l.Debug(msg, args...)
		return
	}
	fallback(slog.LevelDebug).Debug(msg, args...)
}

// Fatal logs at error level and exits
func Fatal(msg string, args ...any) {
	Error(msg, args...)
	if err := Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
	os.Exit(1)
}
