package log

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	imberr "github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// ZerologProvider is the default LoggerProvider, backed by rs/zerolog.
// Loggers created by this provider emit JSON records to stderr and attach
// cockroachdb/errors stack traces under the "stacktrace" attribute when an
// error value appears among the fields.
type ZerologProvider struct {
	mu    sync.Mutex
	level Level
	out   zerolog.Logger
}

// NewZerologProvider creates a provider emitting to stderr at the given level.
func NewZerologProvider(level Level) *ZerologProvider {
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return &ZerologProvider{level: level, out: zl}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &zerologLogger{zl: p.out, level: p.level}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &zerologLogger{
		zl:    p.out.With().Str(ComponentKey, name).Logger(),
		level: p.level,
	}
}

// SetLevel implements LoggerProvider.SetLevel.
// It affects loggers created after the call, not existing instances.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl    zerolog.Logger
	level Level
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	if l.level <= LevelDebug {
		l.emit(l.zl.Debug(), msg, fields)
	}
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	if l.level <= LevelInfo {
		l.emit(l.zl.Info(), msg, fields)
	}
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	if l.level <= LevelWarn {
		l.emit(l.zl.Warn(), msg, fields)
	}
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	if l.level <= LevelError {
		l.emit(l.zl.Error(), msg, fields)
	}
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger(), level: l.level}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.level <= level
}

// emit writes a single record. A bare error value among the fields is logged
// under the "error" key with its extracted stack trace, matching the
// ErrFmtHandler behavior of the slog path.
func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	i := 0
	for i < len(fields) {
		if err, ok := fields[i].(error); ok {
			ev = ev.AnErr(ErrAttrKey, err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceAttrKey, st)
			}
			i++
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		key := fmt.Sprintf("%v", fields[i])
		ev = ev.Interface(key, fields[i+1])
		i += 2
	}
	ev.Msg(msg)
}

var (
	providerMu      sync.Mutex
	defaultProvider LoggerProvider
)

// GetLogger returns the default logger from the active provider.
func GetLogger() Logger {
	return activeProvider().GetLogger()
}

// GetLoggerWithName returns a named logger from the active provider.
func GetLoggerWithName(name string) Logger {
	return activeProvider().GetLoggerWithName(name)
}

// SetProvider replaces the active provider. Passing nil restores the
// zerolog-backed default.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

func activeProvider() LoggerProvider {
	providerMu.Lock()
	defer providerMu.Unlock()
	if defaultProvider == nil {
		defaultProvider = NewZerologProvider(LevelInfo)
	}
	return defaultProvider
}

func init() {
	// Route library warnings (UndefinedMetricWarning etc.) through zerolog.
	imberr.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn(warning.Error())
	})
}
