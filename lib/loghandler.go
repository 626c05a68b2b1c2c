package lib

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

func newLogHandler(g *Generator) slog.Handler {
	buf := &bytes.Buffer{}
	return &logHandler{
		generator: g,
		formatter: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug, ReplaceAttr: dropTime}),
		output:    buf,
		mu:        &sync.Mutex{},
	}
}

// logHandler renders slog records as text and forwards the line to the
// generator zerolog logger, which owns levels and output
type logHandler struct {
	generator *Generator
	formatter slog.Handler
	output    *bytes.Buffer
	mu        *sync.Mutex
}

// Enabled always returns true and lets zerolog decide
func (h *logHandler) Enabled(_ context.Context, level slog.Level) bool {
	return true
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{
		generator: h.generator,
		output:    h.output,
		mu:        h.mu,
		formatter: h.formatter.WithAttrs(attrs),
	}
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	return &logHandler{
		generator: h.generator,
		output:    h.output,
		mu:        h.mu,
		formatter: h.formatter.WithGroup(name),
	}
}

func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	defer h.output.Reset()

	if err := h.formatter.Handle(ctx, r); err != nil {
		return err
	}
	msg := strings.TrimSpace(h.output.String())
	if msg == "" {
		msg = "<<logHandler received empty message>>"
	}
	logger := h.generator.logger
	switch {
	case r.Level < slog.LevelInfo:
		logger.Debug().Msg(msg)
	case r.Level < slog.LevelWarn:
		logger.Info().Msg(msg)
	case r.Level < slog.LevelError:
		logger.Warn().Msg(msg)
	default:
		logger.Error().Msg(msg)
	}
	return nil
}

// zerolog stamps its own time
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
