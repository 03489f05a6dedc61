package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nextwaveweb/salonbook/internal/catalog"
	"github.com/nextwaveweb/salonbook/internal/observability/metrics"
	"github.com/nextwaveweb/salonbook/internal/schedule"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// Availability answers slot questions with fresh reads. The schedule
// service implements it.
type Availability interface {
	ResolveDate(ctx context.Context, businessID, date string) ([]schedule.ResolvedSlot, error)
}

// ServiceMenu looks up service durations for span checks. The catalog
// store implements it.
type ServiceMenu interface {
	Get(ctx context.Context, businessID, name string) (*catalog.Service, error)
}

// Notifier receives booking lifecycle events. Delivery is best effort and
// never blocks or fails the booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b Booking)
	BookingCancelled(ctx context.Context, b Booking)
}

// BookRequest is a customer's booking attempt.
type BookRequest struct {
	BusinessID string
	Date       string
	Time       string
	Name       string
	Phone      string
	Service    string
}

// ServiceConfig wires a booking Service.
type ServiceConfig struct {
	Store        Store
	Availability Availability
	Menu         ServiceMenu // optional; without it every booking is one slot
	Notifier     Notifier    // optional
	Metrics      *metrics.BookingMetrics
	Logger       *logging.Logger
}

// Service validates and confirms bookings against live availability.
type Service struct {
	store        Store
	availability Availability
	menu         ServiceMenu
	notifier     Notifier
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
	now          func() time.Time
}

// NewService creates a booking service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Store == nil {
		panic("booking: store required")
	}
	if cfg.Availability == nil {
		panic("booking: availability required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		store:        cfg.Store,
		availability: cfg.Availability,
		menu:         cfg.Menu,
		notifier:     cfg.Notifier,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		now:          time.Now,
	}
}

// Book confirms an appointment. Availability is re-resolved with fresh
// reads immediately before insert; the unique constraint in the store
// settles any remaining race.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Booking, error) {
	if err := validateRequest(req); err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}

	span := 1
	price := 0.0
	if req.Service != "" && s.menu != nil {
		svc, err := s.menu.Get(ctx, req.BusinessID, req.Service)
		if err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				s.metrics.ObserveBooking("invalid")
				return nil, ErrUnknownService
			}
			return nil, err
		}
		span = svc.SlotSpan()
		price = svc.Price
	}

	times := make([]string, span)
	for i := range times {
		times[i] = schedule.AddMinutes(req.Time, i*catalog.SlotMinutes)
	}

	open, err := s.openSlots(ctx, req.BusinessID, req.Date)
	if err != nil {
		return nil, err
	}
	for _, t := range times {
		if !open[t] {
			s.metrics.ObserveBooking("unavailable")
			return nil, ErrSlotUnavailable
		}
	}

	b := &Booking{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		Date:       req.Date,
		Times:      times,
		Name:       req.Name,
		Phone:      req.Phone,
		Service:    req.Service,
		Price:      price,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveBooking("conflict")
		}
		return nil, err
	}

	s.metrics.ObserveBooking("confirmed")
	s.logger.Info("booking confirmed",
		"business_id", req.BusinessID, "date", req.Date, "time", req.Time, "slots", span)

	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, *b)
	}
	return b, nil
}

// Cancel removes an appointment. The caller must match date, time, name
// and phone exactly; the freed slots reappear on the next resolution
// without any schedule mutation.
func (s *Service) Cancel(ctx context.Context, businessID, date, clock, name, phone string) error {
	if !schedule.ValidDate(date) || !schedule.ValidClock(clock) || name == "" || phone == "" {
		s.metrics.ObserveCancellation("invalid")
		return ErrValidation
	}

	removed, err := s.store.Delete(ctx, businessID, date, clock, name, phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.ObserveCancellation("not_found")
		}
		return err
	}

	s.metrics.ObserveCancellation("cancelled")
	s.logger.Info("booking cancelled",
		"business_id", businessID, "date", date, "time", clock)

	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, *removed)
	}
	return nil
}

// ListByDate returns a day's bookings for the admin view.
func (s *Service) ListByDate(ctx context.Context, businessID, date string) ([]Booking, error) {
	if !schedule.ValidDate(date) {
		return nil, ErrValidation
	}
	return s.store.ListByDate(ctx, businessID, date)
}

func (s *Service) openSlots(ctx context.Context, businessID, date string) (map[string]bool, error) {
	slots, err := s.availability.ResolveDate(ctx, businessID, date)
	if err != nil {
		return nil, err
	}
	open := make(map[string]bool, len(slots))
	for _, slot := range slots {
		if slot.Available {
			open[slot.Time] = true
		}
	}
	return open, nil
}

func validateRequest(req BookRequest) error {
	if req.BusinessID == "" || req.Name == "" || req.Phone == "" {
		return ErrValidation
	}
	if !schedule.ValidDate(req.Date) || !schedule.ValidClock(req.Time) {
		return ErrValidation
	}
	return nil
}
