// Package booking owns confirmed appointments. The bookings table is the
// single source of truth for booked state: resolution overlays it at read
// time, and neither booking nor cancellation ever touches the schedule
// stores.
package booking

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrValidation is returned for malformed booking input.
	ErrValidation = errors.New("booking: invalid input")

	// ErrSlotUnavailable is returned when the requested slot (or any slot in
	// a multi-slot span) is not open.
	ErrSlotUnavailable = errors.New("booking: slot unavailable")

	// ErrSlotTaken is returned when a concurrent booking won the slot. The
	// database unique constraint is the arbiter.
	ErrSlotTaken = errors.New("booking: slot already taken")

	// ErrNotFound is returned when a cancellation matches no booking.
	ErrNotFound = errors.New("booking: not found")

	// ErrUnknownService is returned when the named service is not on the menu.
	ErrUnknownService = errors.New("booking: unknown service")
)

// Booking is one confirmed appointment. Times lists every slot the
// appointment occupies; a half-hour service has exactly one entry and
// longer services hold consecutive entries. Price is the menu price at the
// moment of booking; later catalog changes never rewrite it.
type Booking struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"-"`
	Date       string    `json:"date"`
	Times      []string  `json:"times"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Service    string    `json:"service,omitempty"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// StartTime returns the first occupied slot.
func (b *Booking) StartTime() string {
	if len(b.Times) == 0 {
		return ""
	}
	return b.Times[0]
}

// Store defines booking persistence. Create must insert every occupied
// slot atomically and surface ErrSlotTaken on a uniqueness conflict.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, businessID, date, clock, name, phone string) (*Booking, error)
	ListByDate(ctx context.Context, businessID, date string) ([]Booking, error)
	TimesForRange(ctx context.Context, businessID, fromDate, toDate string) (map[string][]string, error)
	PruneBefore(ctx context.Context, cutoffDate string) (int64, error)
}
