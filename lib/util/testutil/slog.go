package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogRecorder is a slog.Handler keeping every record it receives
type LogRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func NewRecordingLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(rec), rec
}

func (self *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }
func (self *LogRecorder) WithAttrs([]slog.Attr) slog.Handler      { return self }
func (self *LogRecorder) WithGroup(string) slog.Handler           { return self }

func (self *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.records = append(self.records, r.Clone())
	return nil
}

// Messages returns the messages logged at exactly level
func (self *LogRecorder) Messages(level slog.Level) []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	out := []string{}
	for _, r := range self.records {
		if r.Level == level {
			out = append(out, r.Message)
		}
	}
	return out
}

// Attr returns the values of attribute key across records logged at level
func (self *LogRecorder) Attr(level slog.Level, key string) []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	out := []string{}
	for _, r := range self.records {
		if r.Level != level {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				out = append(out, a.Value.String())
			}
			return true
		})
	}
	return out
}
