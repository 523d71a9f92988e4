package agent

import "strings"

// Store exposes the agent directory to HTTP handlers.
type Store interface {
	List() []Agent
	FindByName(name string) (Agent, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Agent
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied agents.
func NewMemoryStore(items []Agent) *MemoryStore {
	return &MemoryStore{items: append([]Agent(nil), items...)}
}

// List returns the agent directory.
func (s *MemoryStore) List() []Agent {
	return append([]Agent(nil), s.items...)
}

// FindByName looks an agent up by its display name, ignoring case.
func (s *MemoryStore) FindByName(name string) (Agent, bool) {
	name = strings.TrimSpace(name)
	for _, item := range s.items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return Agent{}, false
}
