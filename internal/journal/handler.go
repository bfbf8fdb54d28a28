package journal

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// Handler is a slog.Handler that records entries at or above its level
// into a Journal. Every record is stamped with the run's session id.
type Handler struct {
	journal *Journal
	level   slog.Level
	session string
	attrs   []slog.Attr
	groups  []string
}

func NewHandler(j *Journal, level slog.Level, session string) *Handler {
	return &Handler{journal: j, level: level, session: session}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	fields := map[string]any{}
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, attr := range h.attrs {
		fields[attr.Key] = attr.Value.String()
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields[prefix+attr.Key] = attr.Value.String()
		return true
	})

	attrs := ""
	if len(fields) > 0 {
		data, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		attrs = string(data)
	}

	return h.journal.Record(context.WithoutCancel(ctx), Entry{
		Session:   h.session,
		Level:     record.Level.String(),
		Message:   record.Message,
		Attrs:     attrs,
		CreatedAt: record.Time,
	})
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	derived := h.clone()
	for _, attr := range attrs {
		derived.attrs = append(derived.attrs, slog.Attr{Key: prefix + attr.Key, Value: attr.Value})
	}
	return derived
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	derived := h.clone()
	derived.groups = append(derived.groups, name)
	return derived
}

func (h *Handler) clone() *Handler {
	return &Handler{
		journal: h.journal,
		level:   h.level,
		session: h.session,
		attrs:   append([]slog.Attr(nil), h.attrs...),
		groups:  append([]string(nil), h.groups...),
	}
}
