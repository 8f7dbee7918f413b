// Package history tracks where the admin client currently "is".
package history

import "sync"

const Root = "/"

// History is an in-memory location stack. Push replaces the current location.
type History struct {
	mu      sync.RWMutex
	entries []string
}

func New() *History {
	return &History{entries: []string{Root}}
}

// Push navigates to path; an empty path means Root.
func (h *History) Push(path string) {
	if path == "" {
		path = Root
	}
	h.mu.Lock()
	h.entries = append(h.entries, path)
	h.mu.Unlock()
}

func (h *History) Location() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[len(h.entries)-1]
}

// Entries returns every location visited, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.entries...)
}
