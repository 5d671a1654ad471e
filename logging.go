package jsonload

import (
	"context"
	"log/slog"
	"time"
)

// LoadEvent describes one attempt to load a resolved location. A fallback
// chain produces one event per location, all sharing ID.
type LoadEvent struct {
	ID        string
	Reference string
	Location  string
	Strategy  Strategy
	Depth     int
	Fallback  bool
	Duration  time.Duration
	Err       error
}

// Logger records load events.
type Logger interface {
	LogLoad(LoadEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LoadEvent)

// LogLoad implements Logger.
func (f LoggerFunc) LogLoad(event LoadEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogLoad(LoadEvent) {}

// WithLogger attaches a logger to the load call.
func WithLogger(logger Logger) Option {
	return func(cfg *loadConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// SlogLogger writes load events to logger: successes at debug level, failures
// at warn level.
func SlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return LoggerFunc(func(event LoadEvent) {
		attrs := []slog.Attr{
			slog.String("id", event.ID),
			slog.String("reference", event.Reference),
			slog.String("location", event.Location),
			slog.Int("depth", event.Depth),
			slog.Duration("duration", event.Duration),
		}
		if event.Strategy != "" {
			attrs = append(attrs, slog.String("strategy", string(event.Strategy)))
		}
		if event.Fallback {
			attrs = append(attrs, slog.Bool("fallback", true))
		}
		if event.Err != nil {
			attrs = append(attrs, slog.String("error", event.Err.Error()))
			logger.LogAttrs(context.Background(), slog.LevelWarn, "jsonload: load failed", attrs...)
			return
		}
		logger.LogAttrs(context.Background(), slog.LevelDebug, "jsonload: loaded", attrs...)
	})
}
