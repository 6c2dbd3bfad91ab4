package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a stdout logger from cfg with optional context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg, extractors...)
}

// NewWithWriter creates a logger writing to w.
// When a Sentry DSN is configured, records are also sent to Sentry. If Sentry
// cannot be initialized the logger keeps writing to w only.
func NewWithWriter(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	local := newLocalHandler(w, cfg)

	if cfg.Sentry.DSN == "" {
		return slog.New(WithContextAttrs(local, extractors...))
	}

	sentryHandler, err := newSentryHandler(cfg.Sentry)
	if err != nil {
		slog.New(local).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(WithContextAttrs(local, extractors...))
	}

	// Extractors wrap the fan-out; both destinations receive their attributes.
	return slog.New(WithContextAttrs(newMultiHandler(local, sentryHandler), extractors...))
}

func newLocalHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if strings.EqualFold(cfg.Format, FormatText) {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
