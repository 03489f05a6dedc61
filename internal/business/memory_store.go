package business

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a stub Store for tests and demo mode.
type InMemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*Business
	idBySlug map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:     make(map[string]*Business),
		idBySlug: make(map[string]string),
	}
}

// Create inserts a new tenant.
func (s *InMemoryStore) Create(ctx context.Context, b *Business) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.idBySlug[b.Slug]; taken {
		return ErrSlugTaken
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Locale == "" {
		b.Locale = "en"
	}
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}
	b.CreatedAt = time.Now().UTC()
	cp := *b
	s.byID[b.ID] = &cp
	s.idBySlug[b.Slug] = b.ID
	return nil
}

// GetByID fetches one tenant by id.
func (s *InMemoryStore) GetByID(ctx context.Context, id string) (*Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// GetBySlug fetches one tenant by public slug.
func (s *InMemoryStore) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.idBySlug[slug]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

// Timezone reports the tenant's IANA timezone.
func (s *InMemoryStore) Timezone(ctx context.Context, id string) (string, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return b.Timezone, nil
}

// UpdateKnowledge replaces the FAQ assistant's knowledge text.
func (s *InMemoryStore) UpdateKnowledge(ctx context.Context, id, knowledge string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	b.BotKnowledge = knowledge
	return nil
}

// Delete removes a tenant.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.idBySlug, b.Slug)
	delete(s.byID, id)
	return nil
}
