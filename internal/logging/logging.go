// Package logging builds the JSON line logger shared by the HTTP middleware,
// migrations and tracing setup. Every line carries "ts" in the configured
// timezone and a "level".
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// New returns a JSON logger writing one object per line to w.
func New(w io.Writer, loc *time.Location) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			case slog.LevelKey:
				return slog.String("level", levelName(a.Value.Any()))
			}
			return a
		},
	})
	return slog.New(h)
}

// Default returns a stdout logger in the given timezone.
func Default(loc *time.Location) *slog.Logger {
	return New(os.Stdout, loc)
}

func levelName(v any) string {
	lvl, ok := v.(slog.Level)
	if !ok {
		return "info"
	}
	switch {
	case lvl >= slog.LevelError:
		return "error"
	case lvl >= slog.LevelWarn:
		return "warn"
	case lvl >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
