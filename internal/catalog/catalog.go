// Package catalog manages the per-business service menu. Durations drive
// the booking span check: a 60 minute service consumes two consecutive
// half-hour slots.
package catalog

import (
	"context"
	"errors"
)

var (
	// ErrServiceNotFound is returned when a named service does not exist.
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrInvalidService is returned for bad service input.
	ErrInvalidService = errors.New("catalog: invalid service")
)

// SlotMinutes is the grid the schedule runs on. Service durations round
// up to whole slots.
const SlotMinutes = 30

// Service is one bookable offering on a salon's menu.
type Service struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// Validate checks the service fields.
func (s *Service) Validate() error {
	if s.Name == "" || s.Price < 0 || s.DurationMinutes <= 0 {
		return ErrInvalidService
	}
	return nil
}

// SlotSpan reports how many consecutive schedule slots the service
// occupies.
func (s *Service) SlotSpan() int {
	span := (s.DurationMinutes + SlotMinutes - 1) / SlotMinutes
	if span < 1 {
		span = 1
	}
	return span
}

// Store defines catalog persistence, scoped by business.
type Store interface {
	List(ctx context.Context, businessID string) ([]Service, error)
	Get(ctx context.Context, businessID, name string) (*Service, error)
	Upsert(ctx context.Context, businessID string, svc Service) error
	Delete(ctx context.Context, businessID, name string) error
}
