package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/nextwaveweb/salonbook/internal/observability/metrics"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// BookedTimesSource exposes confirmed booking times. Resolution always reads
// it directly; bookings are never cached or denormalized into overrides.
type BookedTimesSource interface {
	TimesForRange(ctx context.Context, businessID, fromDate, toDate string) (map[string][]string, error)
}

// TimezoneSource reports a tenant's IANA timezone so the booking window can
// be anchored at the salon's local today. The business store implements it.
type TimezoneSource interface {
	Timezone(ctx context.Context, businessID string) (string, error)
}

// AvailabilityCache fronts template and override reads. Implementations must
// honor Invalidate immediately; the service calls it on every mutation.
type AvailabilityCache interface {
	GetTemplate(ctx context.Context, businessID string) (WeeklyTemplate, bool)
	SetTemplate(ctx context.Context, businessID string, tpl WeeklyTemplate)
	GetOverrides(ctx context.Context, businessID string) (map[string]OverrideEntry, bool)
	SetOverrides(ctx context.Context, businessID string, entries map[string]OverrideEntry)
	Invalidate(ctx context.Context, businessID string) error
}

// WeekQuery parameterizes a forward availability window.
type WeekQuery struct {
	BusinessID string
	// ReferenceDate optionally anchors the window; empty means today in the
	// business timezone.
	ReferenceDate string
	Timezone      string
	Locale        string
	WithSources   bool
	// FreshReads bypasses the availability cache. The booking path sets it.
	FreshReads bool
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Templates  TemplateStore
	Overrides  OverrideStore
	Booked     BookedTimesSource
	Cache      AvailabilityCache // optional
	Zones      TimezoneSource    // optional; UTC without it
	Metrics    *metrics.ScheduleMetrics
	WindowDays int
	Logger     *logging.Logger
}

// Service orchestrates slot resolution over the three stores and owns every
// template/override mutation so cache invalidation cannot be skipped.
type Service struct {
	templates  TemplateStore
	overrides  OverrideStore
	booked     BookedTimesSource
	cache      AvailabilityCache
	zones      TimezoneSource
	metrics    *metrics.ScheduleMetrics
	windowDays int
	logger     *logging.Logger
	now        func() time.Time
}

// NewService creates a schedule service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	return &Service{
		templates:  cfg.Templates,
		overrides:  cfg.Overrides,
		booked:     cfg.Booked,
		cache:      cfg.Cache,
		zones:      cfg.Zones,
		metrics:    cfg.Metrics,
		windowDays: cfg.WindowDays,
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// ResolveWeek produces the forward window of resolved days starting at the
// reference date (default: today in the business timezone).
func (s *Service) ResolveWeek(ctx context.Context, q WeekQuery) ([]ResolvedDay, error) {
	start := time.Now()

	ref, err := s.referenceDate(q)
	if err != nil {
		return nil, err
	}

	tpl, err := s.loadTemplate(ctx, q.BusinessID, q.FreshReads)
	if err != nil {
		return nil, err
	}
	overrides, err := s.loadOverrides(ctx, q.BusinessID, q.FreshReads)
	if err != nil {
		return nil, err
	}

	from := FormatDate(ref)
	to := FormatDate(ref.AddDate(0, 0, s.windowDays-1))
	booked, err := s.booked.TimesForRange(ctx, q.BusinessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("schedule: load booked times: %w", err)
	}

	days := make([]ResolvedDay, 0, s.windowDays)
	for i := 0; i < s.windowDays; i++ {
		d := ref.AddDate(0, 0, i)
		date := FormatDate(d)
		in := DayInput{
			Scheduled: tpl.Day(d.Weekday()),
			Override:  overrides[date],
			Booked:    booked[date],
		}
		days = append(days, ResolvedDay{
			Date:    date,
			DayName: DayName(d.Weekday(), q.Locale),
			Times:   ResolveDay(in, q.WithSources),
		})
	}

	s.metrics.ObserveResolve(time.Since(start).Seconds())
	return days, nil
}

// ResolveDate resolves a single date with fresh reads. The booking path uses
// it so availability decisions never see cached state. Dates outside the
// forward booking window resolve to nothing, past dates included.
func (s *Service) ResolveDate(ctx context.Context, businessID, date string) ([]ResolvedSlot, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !s.inWindow(ctx, businessID, d) {
		return nil, nil
	}

	tpl, err := s.loadTemplate(ctx, businessID, true)
	if err != nil {
		return nil, err
	}
	entry, err := s.overrides.Get(ctx, businessID, date)
	if err != nil {
		return nil, err
	}
	booked, err := s.booked.TimesForRange(ctx, businessID, date, date)
	if err != nil {
		return nil, fmt.Errorf("schedule: load booked times: %w", err)
	}

	in := DayInput{Scheduled: tpl.Day(d.Weekday()), Override: entry, Booked: booked[date]}
	return ResolveDay(in, false), nil
}

// IsAvailable answers whether one slot is bookable. It always delegates to
// full-day resolution; a shortcut here would fork the availability logic.
func (s *Service) IsAvailable(ctx context.Context, businessID, date, clock string) (bool, error) {
	slots, err := s.ResolveDate(ctx, businessID, date)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.Time == clock && slot.Available {
			return true, nil
		}
	}
	return false, nil
}

// Template returns the stored weekly template for admin views.
func (s *Service) Template(ctx context.Context, businessID string) (WeeklyTemplate, error) {
	return s.templates.Get(ctx, businessID)
}

// Overrides returns every stored override entry for admin views.
func (s *Service) Overrides(ctx context.Context, businessID string) (map[string]OverrideEntry, error) {
	return s.overrides.GetAll(ctx, businessID)
}

// AddTemplateSlot adds a recurring slot to a weekday.
func (s *Service) AddTemplateSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error {
	if err := validWeekday(day); err != nil {
		return err
	}
	if err := s.templates.AddSlot(ctx, businessID, day, clock); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// RemoveTemplateSlot removes a recurring slot from a weekday.
func (s *Service) RemoveTemplateSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error {
	if err := validWeekday(day); err != nil {
		return err
	}
	if err := s.templates.RemoveSlot(ctx, businessID, day, clock); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// EditTemplateSlot moves a recurring slot, rejecting collisions.
func (s *Service) EditTemplateSlot(ctx context.Context, businessID string, day time.Weekday, oldClock, newClock string) error {
	if err := validWeekday(day); err != nil {
		return err
	}
	if err := s.templates.EditSlot(ctx, businessID, day, oldClock, newClock); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// SetTemplateDay replaces a weekday's slot list.
func (s *Service) SetTemplateDay(ctx context.Context, businessID string, day time.Weekday, times []string) error {
	if err := validWeekday(day); err != nil {
		return err
	}
	if err := s.templates.SetDay(ctx, businessID, day, times); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// ToggleTemplateDay disables a weekday (clearing its slots) or enables it.
// Enabling keeps whatever slots are stored; a cleared day stays empty until
// slots are added again, matching the storefront's behavior.
func (s *Service) ToggleTemplateDay(ctx context.Context, businessID string, day time.Weekday, enabled bool) error {
	if err := validWeekday(day); err != nil {
		return err
	}
	if enabled {
		return nil
	}
	if err := s.templates.DisableDay(ctx, businessID, day); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// AddOverride introduces a one-time slot on a date.
func (s *Service) AddOverride(ctx context.Context, businessID, date, clock string) error {
	if err := s.overrides.AddSlot(ctx, businessID, date, clock); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// RemoveOverride suppresses a slot on a date.
func (s *Service) RemoveOverride(ctx context.Context, businessID, date, clock string) error {
	if err := s.overrides.RemoveSlot(ctx, businessID, date, clock); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// EditOverride reschedules a slot on a date.
func (s *Service) EditOverride(ctx context.Context, businessID, date, from, to string) error {
	if err := s.overrides.EditSlot(ctx, businessID, date, from, to); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// RevertOverride restores template-only behavior for one slot on a date.
func (s *Service) RevertOverride(ctx context.Context, businessID, date, clock string) error {
	if err := s.overrides.Revert(ctx, businessID, date, clock); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// ClearOverrides drops every override for a date.
func (s *Service) ClearOverrides(ctx context.Context, businessID, date string) error {
	if err := s.overrides.Clear(ctx, businessID, date); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// DisableDate switches a whole date off.
func (s *Service) DisableDate(ctx context.Context, businessID, date string) error {
	if err := s.overrides.DisableDate(ctx, businessID, date); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// ToggleDate enables or disables a whole date.
func (s *Service) ToggleDate(ctx context.Context, businessID, date string, enabled bool) error {
	if err := s.overrides.ToggleDate(ctx, businessID, date, enabled); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

func (s *Service) referenceDate(q WeekQuery) (time.Time, error) {
	loc := time.UTC
	if q.Timezone != "" {
		if l, err := time.LoadLocation(q.Timezone); err == nil {
			loc = l
		} else {
			s.logger.Warn("unknown business timezone, using UTC", "timezone", q.Timezone)
		}
	}
	if q.ReferenceDate != "" {
		d, err := time.ParseInLocation(dateLayout, q.ReferenceDate, loc)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return d, nil
	}
	now := s.now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
}

// inWindow reports whether the date falls inside [today, today+windowDays),
// with today taken in the business timezone. Dates compare as strings; the
// layout keeps lexical and chronological order identical.
func (s *Service) inWindow(ctx context.Context, businessID string, d time.Time) bool {
	loc := time.UTC
	if s.zones != nil {
		if tz, err := s.zones.Timezone(ctx, businessID); err == nil && tz != "" {
			if l, lerr := time.LoadLocation(tz); lerr == nil {
				loc = l
			} else {
				s.logger.Warn("unknown business timezone, using UTC", "timezone", tz)
			}
		}
	}
	now := s.now().In(loc)
	from := FormatDate(now)
	to := FormatDate(now.AddDate(0, 0, s.windowDays-1))
	date := FormatDate(d)
	return date >= from && date <= to
}

func (s *Service) loadTemplate(ctx context.Context, businessID string, fresh bool) (WeeklyTemplate, error) {
	if !fresh && s.cache != nil {
		if tpl, ok := s.cache.GetTemplate(ctx, businessID); ok {
			return tpl, nil
		}
	}
	tpl, err := s.templates.Get(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("schedule: load template: %w", err)
	}
	if !fresh && s.cache != nil {
		s.cache.SetTemplate(ctx, businessID, tpl)
	}
	return tpl, nil
}

func (s *Service) loadOverrides(ctx context.Context, businessID string, fresh bool) (map[string]OverrideEntry, error) {
	if !fresh && s.cache != nil {
		if entries, ok := s.cache.GetOverrides(ctx, businessID); ok {
			return entries, nil
		}
	}
	entries, err := s.overrides.GetAll(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("schedule: load overrides: %w", err)
	}
	if !fresh && s.cache != nil {
		s.cache.SetOverrides(ctx, businessID, entries)
	}
	return entries, nil
}

func (s *Service) invalidate(ctx context.Context, businessID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		s.logger.Error("availability cache invalidation failed", "error", err, "business_id", businessID)
	}
}

func validWeekday(day time.Weekday) error {
	if day < time.Sunday || day > time.Saturday {
		return ErrInvalidWeekday
	}
	return nil
}
