package booking

import (
	"context"
	"sort"
	"sync"
)

type memoryRow struct {
	booking Booking
	time    string
}

// InMemoryStore is a stub Store for tests and demo mode. It enforces the
// same one-booking-per-slot rule the database constraint does.
type InMemoryStore struct {
	mu sync.Mutex
	// rows maps businessID -> date -> time -> row.
	rows map[string]map[string]map[string]memoryRow
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rows: make(map[string]map[string]map[string]memoryRow)}
}

// Create inserts every occupied slot, atomically.
func (s *InMemoryStore) Create(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.day(b.BusinessID, b.Date)
	for _, t := range b.Times {
		if _, taken := day[t]; taken {
			return ErrSlotTaken
		}
	}
	for _, t := range b.Times {
		day[t] = memoryRow{booking: *b, time: t}
	}
	return nil
}

// Delete removes the booking matching all five identifying fields. A match
// on any occupied slot removes the whole booking.
func (s *InMemoryStore) Delete(ctx context.Context, businessID, date, clock, name, phone string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.rows[businessID][date]
	row, ok := day[clock]
	if !ok || row.booking.Name != name || row.booking.Phone != phone {
		return nil, ErrNotFound
	}
	removed := row.booking
	for _, t := range removed.Times {
		delete(day, t)
	}
	return &removed, nil
}

// ListByDate returns the day's bookings ordered by start time.
func (s *InMemoryStore) ListByDate(ctx context.Context, businessID, date string) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var out []Booking
	for _, row := range s.rows[businessID][date] {
		if seen[row.booking.ID] {
			continue
		}
		seen[row.booking.ID] = true
		out = append(out, row.booking)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime() < out[j].StartTime() })
	return out, nil
}

// TimesForRange returns occupied slot times per date within [from, to].
func (s *InMemoryStore) TimesForRange(ctx context.Context, businessID, fromDate, toDate string) (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]string)
	for date, day := range s.rows[businessID] {
		if date < fromDate || date > toDate {
			continue
		}
		for t := range day {
			out[date] = append(out[date], t)
		}
		sort.Strings(out[date])
	}
	return out, nil
}

// PruneBefore drops every booking dated before the cutoff.
func (s *InMemoryStore) PruneBefore(ctx context.Context, cutoffDate string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, days := range s.rows {
		for date, day := range days {
			if date < cutoffDate {
				n += int64(len(day))
				delete(days, date)
			}
		}
	}
	return n, nil
}

func (s *InMemoryStore) day(businessID, date string) map[string]memoryRow {
	if s.rows[businessID] == nil {
		s.rows[businessID] = make(map[string]map[string]memoryRow)
	}
	if s.rows[businessID][date] == nil {
		s.rows[businessID][date] = make(map[string]memoryRow)
	}
	return s.rows[businessID][date]
}
