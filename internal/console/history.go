// Package console keeps a bounded in-memory scrollback of forwarded bridge
// output, so a shell page that connects late can still render what the bridge
// said before the event stream was open.
package console

import (
	"sync"

	"github.com/sevir/gangway/pkg/models"
)

const defaultScrollback = 1000

// History is a mutex-guarded ring of the most recent console lines. Nothing
// is persisted: the scrollback lives and dies with the shell process.
type History struct {
	mu    sync.Mutex
	lines []models.ConsoleLine
	max   int
}

// NewHistory creates a history bounded to max lines.
func NewHistory(max int) *History {
	if max <= 0 {
		max = defaultScrollback
	}
	return &History{max: max}
}

// Append records a line, evicting the oldest once the bound is reached.
func (h *History) Append(line models.ConsoleLine) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, line)
	if len(h.lines) > h.max {
		// Copy down instead of re-slicing so the backing array does not pin
		// evicted lines.
		n := copy(h.lines, h.lines[len(h.lines)-h.max:])
		h.lines = h.lines[:n]
	}
}

// Snapshot returns up to limit of the most recent lines, oldest first. A
// non-positive limit returns the full scrollback.
func (h *History) Snapshot(limit int) []models.ConsoleLine {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := 0
	if limit > 0 && len(h.lines) > limit {
		start = len(h.lines) - limit
	}
	out := make([]models.ConsoleLine, len(h.lines)-start)
	copy(out, h.lines[start:])
	return out
}

// Len returns the number of retained lines.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

// Clear drops the scrollback.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = nil
}
