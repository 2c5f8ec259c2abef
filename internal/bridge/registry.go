package bridge

import "sync"

// Registry holds the current bridge handle, or none. Every access goes
// through its lock so a restart can never race with a write or with the
// exit-time kill. The invariant is zero or one handle at any instant.
type Registry struct {
	mu     sync.Mutex
	handle *Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Install atomically replaces whatever handle is currently stored.
func (r *Registry) Install(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handle = h
}

// Take atomically removes and returns the current handle, leaving none
// behind, so the old process cannot be written to once logically replaced.
// It returns nil when the registry is empty.
func (r *Registry) Take() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.handle
	r.handle = nil
	return h
}

// Alive reports whether a handle is currently present, without taking
// ownership of it.
func (r *Registry) Alive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle != nil
}

// WithHandle runs fn on the current handle under the registry lock, so the
// handle cannot be torn down mid-operation. It returns ErrNoProcess when the
// registry is empty.
func (r *Registry) WithHandle(fn func(*Handle) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle == nil {
		return ErrNoProcess
	}
	return fn(r.handle)
}
