package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends records to two handlers, each applying its own level.
type teeHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

// TeeHandler duplicates records to primary and secondary, so a debug-level
// log file can sit next to an info-level terminal. Nil handlers are dropped.
func TeeHandler(primary, secondary slog.Handler) slog.Handler {
	switch {
	case primary == nil && secondary == nil:
		return NoopHandler{}
	case secondary == nil:
		return primary
	case primary == nil:
		return secondary
	}
	return &teeHandler{primary: primary, secondary: secondary}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.secondary.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var primaryErr, secondaryErr error
	if h.primary.Enabled(ctx, record.Level) {
		primaryErr = h.primary.Handle(ctx, record.Clone())
	}
	if h.secondary.Enabled(ctx, record.Level) {
		secondaryErr = h.secondary.Handle(ctx, record)
	}
	return errors.Join(primaryErr, secondaryErr)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{primary: h.primary.WithAttrs(attrs), secondary: h.secondary.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: h.primary.WithGroup(name), secondary: h.secondary.WithGroup(name)}
}
