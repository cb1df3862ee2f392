package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls a correlation attribute, such as a transaction or
// request id, out of a context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// correlationHandler adds extracted attributes to every record logged with a
// context. An attribute is skipped when the record already carries its key,
// so call sites that log a transaction id explicitly do not emit it twice.
type correlationHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func newCorrelationHandler(next slog.Handler, extractors []ContextExtractor) slog.Handler {
	if len(extractors) == 0 {
		return next
	}
	return &correlationHandler{next: next, extractors: extractors}
}

func (h *correlationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *correlationHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx == nil {
		return h.next.Handle(ctx, rec)
	}

	var present map[string]struct{}
	for _, ex := range h.extractors {
		attr, ok := ex(ctx)
		if !ok {
			continue
		}
		if present == nil {
			present = make(map[string]struct{}, rec.NumAttrs())
			rec.Attrs(func(a slog.Attr) bool {
				present[a.Key] = struct{}{}
				return true
			})
		}
		if _, dup := present[attr.Key]; dup {
			continue
		}
		present[attr.Key] = struct{}{}
		rec.AddAttrs(attr)
	}
	return h.next.Handle(ctx, rec)
}

func (h *correlationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &correlationHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *correlationHandler) WithGroup(name string) slog.Handler {
	return &correlationHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
