package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nextwaveweb/salonbook/internal/booking"
	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// BusinessStore looks up the salon owner's notification address.
type BusinessStore interface {
	GetByID(ctx context.Context, id string) (*business.Business, error)
}

const sendTimeout = 10 * time.Second

// Service emails the salon owner on booking lifecycle events. Delivery is
// best effort: sends run in a goroutine detached from the request context
// and failures are only logged.
type Service struct {
	email      EmailSender
	businesses BusinessStore
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, businesses BusinessStore, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		businesses: businesses,
		logger:     logger,
	}
}

// BookingConfirmed notifies the owner about a new appointment.
func (s *Service) BookingConfirmed(ctx context.Context, b booking.Booking) {
	s.dispatch(b, "New appointment", fmt.Sprintf(
		`A new appointment was booked.

Customer: %s
Phone: %s
Date: %s
Time: %s%s`,
		b.Name, b.Phone, b.Date, strings.Join(b.Times, ", "), serviceLine(b.Service, b.Price)))
}

// BookingCancelled notifies the owner about a cancellation.
func (s *Service) BookingCancelled(ctx context.Context, b booking.Booking) {
	s.dispatch(b, "Appointment cancelled", fmt.Sprintf(
		`An appointment was cancelled.

Customer: %s
Phone: %s
Date: %s
Time: %s%s

The slot is open for booking again.`,
		b.Name, b.Phone, b.Date, strings.Join(b.Times, ", "), serviceLine(b.Service, b.Price)))
}

func (s *Service) dispatch(b booking.Booking, subject, body string) {
	if s.email == nil || s.businesses == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		biz, err := s.businesses.GetByID(ctx, b.BusinessID)
		if err != nil {
			s.logger.Error("notify: business lookup failed", "error", err, "business_id", b.BusinessID)
			return
		}
		if biz.NotifyEmail == "" {
			return
		}

		msg := EmailMessage{
			To:      biz.NotifyEmail,
			ToName:  biz.Name,
			Subject: fmt.Sprintf("%s - %s %s", subject, b.Date, b.StartTime()),
			Body:    body + signature(biz.Name),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: booking email failed", "error", err, "business_id", b.BusinessID)
			return
		}
		s.logger.Info("notify: booking email sent", "business_id", b.BusinessID, "date", b.Date)
	}()
}

func serviceLine(service string, price float64) string {
	if service == "" {
		return ""
	}
	if price > 0 {
		return fmt.Sprintf("\nService: %s\nPrice: %.2f", service, price)
	}
	return fmt.Sprintf("\nService: %s", service)
}

func signature(name string) string {
	return fmt.Sprintf("\n\n- %s via SalonBook", name)
}

// Ensure interface compliance
var _ booking.Notifier = (*Service)(nil)
