package authcore

import (
	"fmt"
	"sync"
)

// DefaultPriority is assigned during selection to handlers that never had a
// priority configured.
const DefaultPriority = 5

// Registry holds the registered authentication handlers and selects the one
// serving a given request.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
	enabled  map[string]bool
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]*Handler),
		enabled:  make(map[string]bool),
	}
}

// Register adds a handler to the registry under its strategy name.
func (r *Registry) Register(h *Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Name()] = h
}

// Enable enables a handler by name.
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; !ok {
		return fmt.Errorf("handler %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables a handler by name.
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Get returns a handler by name.
func (r *Registry) Get(name string) (*Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// IsEnabled checks if a handler is enabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Installed returns all registered handler names.
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Select returns the enabled handler with the highest priority among those
// whose strategy can handle the input. Ties break on name for determinism.
func (r *Registry) Select(in Input) (*Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Handler
	var bestName string
	for name, h := range r.handlers {
		if !r.enabled[name] || !h.CanHandle(in) {
			continue
		}
		if best == nil {
			best, bestName = h, name
			continue
		}
		p, bp := h.Priority(DefaultPriority), best.Priority(DefaultPriority)
		if p > bp || (p == bp && name < bestName) {
			best, bestName = h, name
		}
	}
	return best, best != nil
}
