package errors

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a structured JSON logger writing to stdout
func NewLogger(level slog.Level) *Logger {
	return NewLoggerWithWriter(os.Stdout, level)
}

// NewLoggerWithWriter creates a structured JSON logger writing to w
func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

// New creates a logger from a level name: debug, info, warn or error
func New(level string) (*Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewLogger(slogLevel), nil
}

// ParseLevel converts a level name into a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// With returns a child logger that adds args to every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// LogError logs err at error level. AppError fields and context are flattened into the record.
func (l *Logger) LogError(err error, message string, args ...any) {
	appErr, ok := AsAppError(err)
	if !ok {
		l.logger.Error(message, append([]any{"error", err.Error()}, args...)...)
		return
	}

	logArgs := []any{
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message,
	}
	if appErr.Cause != nil {
		logArgs = append(logArgs, "cause", appErr.Cause.Error())
	}
	for key, value := range appErr.Context {
		logArgs = append(logArgs, key, value)
	}
	l.logger.Error(message, append(logArgs, args...)...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

func (l *Logger) Error(message string, args ...any) {
	l.logger.Error(message, args...)
}
