// Package logging configures reel's zerolog logger. Output goes to a
// lumberjack-rotated file so it never interferes with the terminal UI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the active log file inside the log directory.
const FileName = "reel.log"

// Logger wraps zerolog for application logging.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// Config holds logger configuration.
type Config struct {
	Level      string
	Dir        string    // directory for log files; empty disables the file
	Console    io.Writer // optional human-readable mirror, e.g. os.Stderr for CLI commands
	MaxSizeMB  int       // default 10
	MaxBackups int       // default 3
	MaxAgeDays int       // default 14
}

// New creates a logger. When the log directory cannot be created the logger
// falls back to Console, or discards output when Console is nil.
func New(cfg Config) *Logger {
	var writers []io.Writer
	if cfg.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: cfg.Console, TimeFormat: time.Kitchen})
	}

	var rotator *lumberjack.Logger
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err == nil {
			rotator = &lumberjack.Logger{
				Filename:   filepath.Join(cfg.Dir, FileName),
				MaxSize:    orDefault(cfg.MaxSizeMB, 10),
				MaxBackups: orDefault(cfg.MaxBackups, 3),
				MaxAge:     orDefault(cfg.MaxAgeDays, 14),
				Compress:   true,
				LocalTime:  true,
			}
			writers = append(writers, rotator)
		}
	}

	var output io.Writer
	switch len(writers) {
	case 0:
		output = io.Discard
	case 1:
		output = writers[0]
	default:
		output = io.MultiWriter(writers...)
	}

	logger := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger, rotator: rotator}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l != nil && l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// WithComponent returns a new logger with a component field.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("component", component).Logger(),
	}
}

// ErrorHook returns a func(op, err) that records recovered errors at warn
// level. It satisfies the hook types of the selection store and the Radarr
// client.
func (l *Logger) ErrorHook() func(op string, err error) {
	return func(op string, err error) {
		if err == nil {
			return
		}
		l.Warn().Err(err).Str("op", op).Msg("recovered error")
	}
}

// ParseLevel converts a config level to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
