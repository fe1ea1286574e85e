// Package logx is the process-wide logger. It wraps a zap logger behind a
// small printf-style surface plus field-carrying child loggers.
package logx

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "warn", "error" to levels; anything else is info
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	global atomic.Pointer[zap.Logger]
	exit   = os.Exit
)

func init() {
	global.Store(build("console"))
}

func build(format string) *zap.Logger {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Configure rebuilds the global logger with the given format ("json" or "console") and level
func Configure(format string, lvl Level) {
	SetLevel(lvl)
	global.Store(build(format))
}

// SetLevel changes the minimum level of the global logger
func SetLevel(lvl Level) {
	level.SetLevel(lvl.zapLevel())
}

// Replace swaps the underlying zap logger, mainly for tests
func Replace(l *zap.Logger) (restore func()) {
	prev := global.Swap(l.WithOptions(zap.AddCallerSkip(1)))
	return func() { global.Store(prev) }
}

// Sync flushes buffered entries
func Sync() {
	_ = global.Load().Sync()
}

func sugar() *zap.SugaredLogger { return global.Load().Sugar() }

func Debug(msg string)                  { sugar().Debug(msg) }
func Debugf(format string, args ...any) { sugar().Debugf(format, args...) }
func Info(msg string)                   { sugar().Info(msg) }
func Infof(format string, args ...any)  { sugar().Infof(format, args...) }
func Warn(msg string)                   { sugar().Warn(msg) }
func Warnf(format string, args ...any)  { sugar().Warnf(format, args...) }
func Error(msg string)                  { sugar().Error(msg) }
func Errorf(format string, args ...any) { sugar().Errorf(format, args...) }

// Fatalf logs at error level, flushes and exits the process
func Fatalf(format string, args ...any) {
	sugar().Errorf(format, args...)
	Sync()
	exit(1)
}

// Logger is a child logger carrying structured fields
type Logger struct {
	fields []zap.Field
}

// With returns a logger that attaches fields to every entry
func With(fields map[string]any) *Logger {
	return (&Logger{}).With(fields)
}

// With returns a copy of l extended with fields
func (l *Logger) With(fields map[string]any) *Logger {
	next := make([]zap.Field, 0, len(l.fields)+len(fields))
	next = append(next, l.fields...)
	for k, v := range fields {
		next = append(next, zap.Any(k, v))
	}
	return &Logger{fields: next}
}

// WithError attaches err under the "error" key
func (l *Logger) WithError(err error) *Logger {
	next := make([]zap.Field, 0, len(l.fields)+1)
	next = append(next, l.fields...)
	next = append(next, zap.Error(err))
	return &Logger{fields: next}
}

func (l *Logger) Debug(msg string) { global.Load().Debug(msg, l.fields...) }
func (l *Logger) Info(msg string)  { global.Load().Info(msg, l.fields...) }
func (l *Logger) Warn(msg string)  { global.Load().Warn(msg, l.fields...) }
func (l *Logger) Error(msg string) { global.Load().Error(msg, l.fields...) }

func (l *Logger) Warnf(format string, args ...any) {
	global.Load().Warn(fmt.Sprintf(format, args...), l.fields...)
}

func (l *Logger) Errorf(format string, args ...any) {
	global.Load().Error(fmt.Sprintf(format, args...), l.fields...)
}
