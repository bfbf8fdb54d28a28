package main

import (
	"context"
	"log/slog"
	"os"

	"todomatic/internal/journal"
)

// newLogger builds the run's logger. Warnings and errors go to the
// journal, which stamps the session itself; everything goes to the
// optional JSON file tagged with the session. Nothing is written
// to stderr while the TUI owns the terminal.
func newLogger(j *journal.Journal, session, logOutput string) (*slog.Logger, func(), error) {
	handlers := fanoutHandler{journal.NewHandler(j, slog.LevelWarn, session)}
	closer := func() {}

	if logOutput != "" {
		file, err := os.Create(logOutput)
		if err != nil {
			return nil, nil, err
		}
		fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
		handlers = append(handlers, fileHandler.WithAttrs([]slog.Attr{slog.String("session", session)}))
		closer = func() { file.Close() }
	}

	return slog.New(handlers), closer, nil
}

// fanoutHandler sends each record to every sub-handler enabled for its
// level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
