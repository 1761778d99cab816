package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends each record to a primary handler and a mirror handler,
// e.g. the console and a JSON log file.
type teeHandler struct {
	primary slog.Handler
	mirror  slog.Handler
}

func newTeeHandler(primary, mirror slog.Handler) slog.Handler {
	return &teeHandler{primary: primary, mirror: mirror}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.mirror.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errPrimary, errCopy error
	if h.primary.Enabled(ctx, r.Level) {
		errPrimary = h.primary.Handle(ctx, r.Clone())
	}
	if h.mirror.Enabled(ctx, r.Level) {
		errCopy = h.mirror.Handle(ctx, r)
	}
	return errors.Join(errPrimary, errCopy)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{primary: h.primary.WithAttrs(attrs), mirror: h.mirror.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: h.primary.WithGroup(name), mirror: h.mirror.WithGroup(name)}
}
