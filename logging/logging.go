// Package logging wires up the process-wide structured logger. The
// teacher repository prints straight to stdout/stderr; this domain's
// "logged and skipped" / "logged, evaluation proceeds" error policy
// (spec.md §7) needs queryable structured fields (component,
// activity_id, user_id) instead, so every component logs through
// zerolog the way the retrieval pack's cryptorun does for its own
// multi-tier ingest/score pipeline.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Logger returns the process-wide logger, initializing it on first
// use with a console writer in dev and plain JSON when GARMIN_LOG_JSON
// is set (spec.md §6's environment-driven configuration extends here).
func Logger() *zerolog.Logger {
	once.Do(func() {
		var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		if os.Getenv("GARMIN_LOG_JSON") != "" {
			w = os.Stderr
		}
		level := zerolog.InfoLevel
		if lvl, err := zerolog.ParseLevel(os.Getenv("GARMIN_LOG_LEVEL")); err == nil {
			level = lvl
		}
		logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	})
	return &logger
}

// SetLogger overrides the package logger, used by tests that want to
// assert on emitted events via a custom writer.
func SetLogger(l zerolog.Logger) {
	once.Do(func() {}) // ensure Logger() never re-initializes over a test override
	logger = l
}
