package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestMultiHandler_FansOut(t *testing.T) {
	t.Parallel()

	var info, warn bytes.Buffer
	h := newMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(h).With(slog.String("component", "invitation"))

	log.Info("queued")
	log.Warn("slow provider")

	require.Contains(t, info.String(), "queued")
	require.Contains(t, info.String(), "slow provider")
	require.NotContains(t, warn.String(), "queued")
	require.Contains(t, warn.String(), `"component":"invitation"`)
	require.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	require.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestMultiHandler_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("sentry unavailable")
	var buf bytes.Buffer
	h := newMultiHandler(
		failingHandler{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil), err: boom},
		slog.NewTextHandler(&buf, nil),
	)

	rec := slog.NewRecord(time.Now(), slog.LevelError, "send failed", 0)
	err := h.Handle(context.Background(), rec)

	require.ErrorIs(t, err, boom)
	require.Contains(t, buf.String(), "send failed")
}
