package schedule

import (
	"context"
	"sync"
	"time"
)

// TemplateStore persists the recurring weekly pattern per business.
type TemplateStore interface {
	Get(ctx context.Context, businessID string) (WeeklyTemplate, error)
	SetDay(ctx context.Context, businessID string, day time.Weekday, times []string) error
	AddSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error
	RemoveSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error
	EditSlot(ctx context.Context, businessID string, day time.Weekday, oldClock, newClock string) error
	DisableDay(ctx context.Context, businessID string, day time.Weekday) error
}

// OverrideStore persists one-time date deltas per business.
type OverrideStore interface {
	Get(ctx context.Context, businessID, date string) (OverrideEntry, error)
	GetAll(ctx context.Context, businessID string) (map[string]OverrideEntry, error)
	AddSlot(ctx context.Context, businessID, date, clock string) error
	RemoveSlot(ctx context.Context, businessID, date, clock string) error
	EditSlot(ctx context.Context, businessID, date, from, to string) error
	Revert(ctx context.Context, businessID, date, clock string) error
	Clear(ctx context.Context, businessID, date string) error
	DisableDate(ctx context.Context, businessID, date string) error
	ToggleDate(ctx context.Context, businessID, date string, enabled bool) error
	PruneBefore(ctx context.Context, cutoffDate string) (int64, error)
}

// InMemoryTemplateStore is a stub TemplateStore for tests and demo mode.
type InMemoryTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]WeeklyTemplate
}

// NewInMemoryTemplateStore creates an empty in-memory template store.
func NewInMemoryTemplateStore() *InMemoryTemplateStore {
	return &InMemoryTemplateStore{templates: make(map[string]WeeklyTemplate)}
}

func (s *InMemoryTemplateStore) get(businessID string) WeeklyTemplate {
	t, ok := s.templates[businessID]
	if !ok {
		t = make(WeeklyTemplate)
		s.templates[businessID] = t
	}
	return t
}

// Get returns a copy of the business template.
func (s *InMemoryTemplateStore) Get(ctx context.Context, businessID string) (WeeklyTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[businessID].Clone(), nil
}

// SetDay replaces the slot list for one weekday.
func (s *InMemoryTemplateStore) SetDay(ctx context.Context, businessID string, day time.Weekday, times []string) error {
	for _, t := range times {
		if !ValidClock(t) {
			return ErrInvalidClock
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl := s.get(businessID)
	tpl[day] = nil
	for _, t := range times {
		tpl[day] = insertSorted(tpl[day], t)
	}
	return nil
}

// AddSlot adds a recurring slot.
func (s *InMemoryTemplateStore) AddSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(businessID).AddSlot(day, clock)
}

// RemoveSlot removes a recurring slot.
func (s *InMemoryTemplateStore) RemoveSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(businessID).RemoveSlot(day, clock)
}

// EditSlot moves a recurring slot, rejecting collisions.
func (s *InMemoryTemplateStore) EditSlot(ctx context.Context, businessID string, day time.Weekday, oldClock, newClock string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(businessID).EditSlot(day, oldClock, newClock)
}

// DisableDay clears a weekday.
func (s *InMemoryTemplateStore) DisableDay(ctx context.Context, businessID string, day time.Weekday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(businessID).DisableDay(day)
	return nil
}

// InMemoryOverrideStore is a stub OverrideStore for tests and demo mode.
type InMemoryOverrideStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]*OverrideEntry // businessID -> date -> entry
}

// NewInMemoryOverrideStore creates an empty in-memory override store.
func NewInMemoryOverrideStore() *InMemoryOverrideStore {
	return &InMemoryOverrideStore{entries: make(map[string]map[string]*OverrideEntry)}
}

func (s *InMemoryOverrideStore) entry(businessID, date string) *OverrideEntry {
	byDate, ok := s.entries[businessID]
	if !ok {
		byDate = make(map[string]*OverrideEntry)
		s.entries[businessID] = byDate
	}
	e, ok := byDate[date]
	if !ok {
		e = &OverrideEntry{}
		byDate[date] = e
	}
	return e
}

// Get returns the entry for a date, zero-valued when absent.
func (s *InMemoryOverrideStore) Get(ctx context.Context, businessID, date string) (OverrideEntry, error) {
	if !ValidDate(date) {
		return OverrideEntry{}, ErrInvalidDate
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[businessID][date]; ok {
		return e.Clone(), nil
	}
	return OverrideEntry{}, nil
}

// GetAll returns every non-empty entry for a business.
func (s *InMemoryOverrideStore) GetAll(ctx context.Context, businessID string) (map[string]OverrideEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]OverrideEntry)
	for date, e := range s.entries[businessID] {
		if !e.IsEmpty() {
			out[date] = e.Clone()
		}
	}
	return out, nil
}

func (s *InMemoryOverrideStore) mutate(businessID, date string, fn func(*OverrideEntry) error) error {
	if !ValidDate(date) {
		return ErrInvalidDate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(businessID, date)
	if err := fn(e); err != nil {
		return err
	}
	if e.IsEmpty() {
		delete(s.entries[businessID], date)
	}
	return nil
}

// AddSlot introduces a one-time slot.
func (s *InMemoryOverrideStore) AddSlot(ctx context.Context, businessID, date, clock string) error {
	return s.mutate(businessID, date, func(e *OverrideEntry) error { return e.AddSlot(clock) })
}

// RemoveSlot suppresses a slot for the date.
func (s *InMemoryOverrideStore) RemoveSlot(ctx context.Context, businessID, date, clock string) error {
	return s.mutate(businessID, date, func(e *OverrideEntry) error { return e.RemoveSlot(clock) })
}

// EditSlot reschedules a slot for the date.
func (s *InMemoryOverrideStore) EditSlot(ctx context.Context, businessID, date, from, to string) error {
	return s.mutate(businessID, date, func(e *OverrideEntry) error { return e.EditSlot(from, to) })
}

// Revert restores template-only behavior for one slot.
func (s *InMemoryOverrideStore) Revert(ctx context.Context, businessID, date, clock string) error {
	return s.mutate(businessID, date, func(e *OverrideEntry) error {
		e.Revert(clock)
		return nil
	})
}

// Clear drops the whole entry for a date.
func (s *InMemoryOverrideStore) Clear(ctx context.Context, businessID, date string) error {
	if !ValidDate(date) {
		return ErrInvalidDate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries[businessID], date)
	return nil
}

// DisableDate switches a whole date off.
func (s *InMemoryOverrideStore) DisableDate(ctx context.Context, businessID, date string) error {
	return s.mutate(businessID, date, func(e *OverrideEntry) error {
		e.Disable()
		return nil
	})
}

// ToggleDate enables or disables a whole date.
func (s *InMemoryOverrideStore) ToggleDate(ctx context.Context, businessID, date string, enabled bool) error {
	return s.mutate(businessID, date, func(e *OverrideEntry) error {
		e.Toggle(enabled)
		return nil
	})
}

// PruneBefore drops entries dated strictly before the cutoff.
func (s *InMemoryOverrideStore) PruneBefore(ctx context.Context, cutoffDate string) (int64, error) {
	if !ValidDate(cutoffDate) {
		return 0, ErrInvalidDate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var pruned int64
	for _, byDate := range s.entries {
		for date := range byDate {
			if date < cutoffDate {
				delete(byDate, date)
				pruned++
			}
		}
	}
	return pruned, nil
}
