// Package logger provides structured logging for ndjson-to-csv using zap.
//
// Standard output carries CSV data, so logs go to stderr or a file and never
// to stdout.
package logger

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/ndjson2csv/internal/config"
)

// ErrStdoutOutput is returned when logs are pointed at standard output.
var ErrStdoutOutput = errors.New("logging to stdout would mix with CSV output")

// Logger wraps zap.SugaredLogger with context methods.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New creates a new Logger from configuration.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	ws, colorize, err := buildWriter(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(buildEncoder(cfg.Format, colorize), ws, parseLevel(cfg.Level))
	baseLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return &Logger{
		SugaredLogger: baseLogger.Sugar(),
		base:          baseLogger,
	}, nil
}

// NewDefault creates a Logger with default settings (warn level, text format, stderr).
func NewDefault() *Logger {
	logger, _ := New(&config.LoggingConfig{Level: "warn", Format: "text", Output: "stderr"})
	return logger
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	base := zap.NewNop()
	return &Logger{
		SugaredLogger: base.Sugar(),
		base:          base,
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// buildEncoder returns a JSON encoder, or a console encoder whose level
// names are colored when colorize is set.
func buildEncoder(format string, colorize bool) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if colorize {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// buildWriter opens the log destination and reports whether it is a
// terminal.
func buildWriter(output string) (zapcore.WriteSyncer, bool, error) {
	switch output {
	case "stderr", "":
		fd := os.Stderr.Fd()
		return zapcore.Lock(os.Stderr), isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), nil
	case "stdout", "-":
		return nil, false, ErrStdoutOutput
	}

	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open log file: %w", err)
	}
	return zapcore.AddSync(file), false, nil
}

// WithSource returns a Logger tagged with the input being converted.
func (l *Logger) WithSource(source string) *Logger {
	return l.with("source", source)
}

// WithPass returns a Logger tagged with the pass (count, headers, write).
func (l *Logger) WithPass(pass string) *Logger {
	return l.with("pass", pass)
}

// WithRecord returns a Logger tagged with a 1-based record number.
func (l *Logger) WithRecord(n int64) *Logger {
	return l.with("record", n)
}

func (l *Logger) with(args ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(args...),
		base:          l.base,
	}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
