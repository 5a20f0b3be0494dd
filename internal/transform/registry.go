package transform

import "sync"

// Registry keeps one engine per session. Opening the editor for a session
// that already has one replaces it, which is how switching frames resets
// the transform state.
type Registry struct {
	mu      sync.Mutex
	engines map[string]*Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: map[string]*Engine{}}
}

// Create installs a fresh engine for the session, replacing any existing
// one.
func (r *Registry) Create(sessionID string, viewportW, viewportH float64) *Engine {
	e := New(viewportW, viewportH)
	r.mu.Lock()
	r.engines[sessionID] = e
	r.mu.Unlock()
	return e
}

// Get returns the session's engine, if one exists.
func (r *Registry) Get(sessionID string) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[sessionID]
	return e, ok
}

// Remove discards the session's engine.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	delete(r.engines, sessionID)
	r.mu.Unlock()
}
