package catalog

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a stub Store for tests and demo mode.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Service
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]map[string]Service)}
}

// List returns the full menu for a business, ordered by name.
func (s *InMemoryStore) List(ctx context.Context, businessID string) ([]Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	menu := s.data[businessID]
	services := make([]Service, 0, len(menu))
	for _, svc := range menu {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}

// Get returns one named service.
func (s *InMemoryStore) Get(ctx context.Context, businessID, name string) (*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.data[businessID][name]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

// Upsert inserts or replaces one service by name.
func (s *InMemoryStore) Upsert(ctx context.Context, businessID string, svc Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[businessID] == nil {
		s.data[businessID] = make(map[string]Service)
	}
	s.data[businessID][svc.Name] = svc
	return nil
}

// Delete removes one service by name.
func (s *InMemoryStore) Delete(ctx context.Context, businessID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[businessID][name]; !ok {
		return ErrServiceNotFound
	}
	delete(s.data[businessID], name)
	return nil
}
