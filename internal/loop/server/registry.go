package server

import (
	"sync"
	"time"
)

// Registry tracks the live game servers of a host so they can be told
// about a shutdown.
type Registry struct {
	mu      sync.RWMutex
	servers map[int]*Server
	nextID  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		servers: make(map[int]*Server),
		nextID:  1,
	}
}

// Register adds s and returns its id.
func (r *Registry) Register(s *Server) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.servers[id] = s
	return id
}

// Unregister removes the server with the given id.
func (r *Registry) Unregister(id int) {
	r.mu.Lock()
	delete(r.servers, id)
	r.mu.Unlock()
}

// Len returns the number of registered servers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.servers)
}

// Shutdown notifies every registered server's adapter about the shutdown and
// waits for them to unregister (up to the given timeout).
// The caller should cancel the servers' contexts after Shutdown returns.
func (r *Registry) Shutdown(timeout time.Duration) {
	r.mu.RLock()
	for _, s := range r.servers {
		s.notify(Event{Type: EventShutdown})
	}
	r.mu.RUnlock()

	// Wait for all sessions to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Len() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
