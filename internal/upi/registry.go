package upi

import "sync"

// Registry holds the process-wide current payee handle. It is seeded from
// config and can be swapped at runtime through the change-upi endpoint.
type Registry struct {
	mu     sync.RWMutex
	handle string
}

func NewRegistry(handle string) *Registry {
	return &Registry{handle: handle}
}

func (r *Registry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handle
}

// Set replaces the current handle after validating its shape.
func (r *Registry) Set(handle string) error {
	if err := ValidateAddress(handle); err != nil {
		return err
	}
	r.mu.Lock()
	r.handle = handle
	r.mu.Unlock()
	return nil
}
