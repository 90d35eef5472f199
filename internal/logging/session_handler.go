package logging

import (
	"context"
	"log/slog"
)

// runIDHandler stamps run_id on every record. The attribute stays at the top
// level even after WithGroup.
type runIDHandler struct {
	base  slog.Handler
	runID string
	// stamped is set once run_id has been attached to base ahead of a group.
	stamped bool
}

func newRunIDHandler(base slog.Handler, runID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &runIDHandler{base: base, runID: runID}
}

func (h *runIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *runIDHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.stamped {
		record.AddAttrs(slog.String(FieldRunID, h.runID))
	}
	return h.base.Handle(ctx, record)
}

func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runIDHandler{base: h.base.WithAttrs(attrs), runID: h.runID, stamped: h.stamped}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	base := h.base
	if !h.stamped {
		base = base.WithAttrs([]slog.Attr{slog.String(FieldRunID, h.runID)})
	}
	return &runIDHandler{base: base.WithGroup(name), runID: h.runID, stamped: true}
}
