package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger, giving callers a stable field-map calling
// convention (message plus an optional context map) instead of zerolog's
// own chained-builder API, so handler code stays simple to read.
type Logger struct {
	z zerolog.Logger
}

// NewLogger creates a logger writing to stderr at minLevel and above.
func NewLogger(minLevel string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	z := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(parseLevel(minLevel))
	return &Logger{z: z}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

var defaultLogger = NewLogger("INFO")

func (l *Logger) emit(event *zerolog.Event, message string, context map[string]interface{}) {
	for k, v := range context {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Debug(message string, context ...map[string]interface{}) {
	l.emit(l.z.Debug(), message, firstOrEmpty(context))
}

func (l *Logger) Info(message string, context ...map[string]interface{}) {
	l.emit(l.z.Info(), message, firstOrEmpty(context))
}

func (l *Logger) Warn(message string, context ...map[string]interface{}) {
	l.emit(l.z.Warn(), message, firstOrEmpty(context))
}

func (l *Logger) Error(message string, context ...map[string]interface{}) {
	l.emit(l.z.Error(), message, firstOrEmpty(context))
}

func firstOrEmpty(context []map[string]interface{}) map[string]interface{} {
	if len(context) > 0 {
		return context[0]
	}
	return nil
}

// Package-level convenience functions using the default logger.

func Debug(message string, context ...map[string]interface{}) {
	defaultLogger.Debug(message, context...)
}
func Info(message string, context ...map[string]interface{}) {
	defaultLogger.Info(message, context...)
}
func Warn(message string, context ...map[string]interface{}) {
	defaultLogger.Warn(message, context...)
}
func Error(message string, context ...map[string]interface{}) {
	defaultLogger.Error(message, context...)
}

// SetMinLevel replaces the default logger's minimum severity.
func SetMinLevel(level string) {
	defaultLogger = NewLogger(level)
}
