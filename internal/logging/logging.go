// Package logging builds the application's slog logger.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

const appName = "weather-dashboard"

// New returns a colourised tint logger in dev and a JSON logger otherwise.
func New(w io.Writer, env, version string, level slog.Level) *slog.Logger {
	if env == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", env,
	)
}

// Err is a tint-aware error attribute.
func Err(err error) slog.Attr {
	return tint.Err(err)
}
