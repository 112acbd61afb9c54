package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// BufferedHandler captures log records in memory as JSON lines.
// Tests use it to assert on warnings emitted during generation:
//
//	h := logging.NewBufferedHandler(slog.LevelWarn)
//	gen, _ := declpdf.NewGenerator(declpdf.WithLogger(slog.New(h)))
//	// ...
//	if h.Contains("unexpected page count") { ... }
type BufferedHandler struct {
	level slog.Leveler
	state *bufferState
	attrs []string // rendered with the group active when they were added
	group string
}

type bufferState struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewBufferedHandler captures records at or above level.
func NewBufferedHandler(level slog.Leveler) *BufferedHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &BufferedHandler{level: level, state: &bufferState{}}
}

// Enabled implements slog.Handler.
func (h *BufferedHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *BufferedHandler) Handle(_ context.Context, r slog.Record) error {
	entry := bufferedEntry{Level: r.Level.String(), Message: r.Message}
	entry.Attrs = append(entry.Attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		entry.Attrs = append(entry.Attrs, h.prefixed(a))
		return true
	})

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.buf.Write(data)
	h.state.buf.WriteByte('\n')
	return nil
}

func (h *BufferedHandler) prefixed(a slog.Attr) string {
	if h.group == "" {
		return a.String()
	}
	return h.group + "." + a.String()
}

// WithAttrs implements slog.Handler.
func (h *BufferedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]string, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		merged = append(merged, h.prefixed(a))
	}
	return &BufferedHandler{level: h.level, state: h.state, attrs: merged, group: h.group}
}

// WithGroup implements slog.Handler.
func (h *BufferedHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &BufferedHandler{level: h.level, state: h.state, attrs: h.attrs, group: group}
}

// String returns everything captured so far.
func (h *BufferedHandler) String() string {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return h.state.buf.String()
}

// Contains reports whether the captured output contains s.
func (h *BufferedHandler) Contains(s string) bool {
	return strings.Contains(h.String(), s)
}

type bufferedEntry struct {
	Level   string   `json:"level"`
	Message string   `json:"message"`
	Attrs   []string `json:"attrs,omitempty"`
}
