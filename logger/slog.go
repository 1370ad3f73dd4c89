package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/phsym/console-slog"
)

// formatEnv selects the handler for NewSlog. Anything other than "console"
// keeps the JSON handler.
const formatEnv = "SIP2_LOG_FORMAT"

type slogLogger struct {
	base  *slog.Logger
	level *slog.LevelVar
}

// NewSlog returns a Logger writing to stdout. Records are JSON by default;
// setting SIP2_LOG_FORMAT=console switches to a colorized console handler
// for interactive use.
func NewSlog(level Level) Logger {
	return newSlog(os.Stdout, level, os.Getenv(formatEnv))
}

func newSlog(w io.Writer, level Level, format string) Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slog())

	var handler slog.Handler
	if format == "console" {
		handler = console.NewHandler(w, &console.HandlerOptions{Level: lv})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lv,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					a.Key = "ts"
				}
				return a
			},
		})
	}

	return &slogLogger{base: slog.New(handler), level: lv}
}

func (l *slogLogger) Debug(msg string, keysAndValues ...any) {
	l.base.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

func (l *slogLogger) Info(msg string, keysAndValues ...any) {
	l.base.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

func (l *slogLogger) Warn(msg string, keysAndValues ...any) {
	l.base.Log(context.Background(), slog.LevelWarn, msg, keysAndValues...)
}

func (l *slogLogger) Error(msg string, keysAndValues ...any) {
	l.base.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With shares the parent's level var, so SetLevel on either side affects both.
func (l *slogLogger) With(keysAndValues ...any) Logger {
	return &slogLogger{base: l.base.With(keysAndValues...), level: l.level}
}

func (l *slogLogger) Level() Level {
	return fromSlog(l.level.Level())
}

func (l *slogLogger) SetLevel(level Level) {
	l.level.Set(level.slog())
}

func (l Level) slog() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fromSlog(l slog.Level) Level {
	switch {
	case l <= slog.LevelDebug:
		return DebugLevel
	case l <= slog.LevelInfo:
		return InfoLevel
	case l <= slog.LevelWarn:
		return WarnLevel
	default:
		return ErrorLevel
	}
}
