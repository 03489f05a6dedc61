package schedule

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrInvalidClock is returned for malformed "HH:MM" values.
	ErrInvalidClock = errors.New("schedule: invalid clock value")

	// ErrInvalidDate is returned for malformed "YYYY-MM-DD" values.
	ErrInvalidDate = errors.New("schedule: invalid date value")

	// ErrInvalidWeekday is returned for weekday values outside 0..6.
	ErrInvalidWeekday = errors.New("schedule: invalid weekday")

	// ErrSlotNotFound is returned when a mutation targets a missing slot.
	ErrSlotNotFound = errors.New("schedule: slot not found")

	// ErrSlotExists is returned when a mutation would collide with an
	// existing slot. The original slot is left untouched.
	ErrSlotExists = errors.New("schedule: slot already exists")

	// ErrSlotEdited is returned when a date-level edit targets a slot that
	// already has a pending edit for that date.
	ErrSlotEdited = errors.New("schedule: slot already edited for this date")
)

// WeeklyTemplate is the recurring availability pattern: weekday to a sorted,
// duplicate-free list of "HH:MM" slots.
type WeeklyTemplate map[time.Weekday][]string

// Clone returns a deep copy.
func (t WeeklyTemplate) Clone() WeeklyTemplate {
	out := make(WeeklyTemplate, len(t))
	for day, times := range t {
		out[day] = append([]string(nil), times...)
	}
	return out
}

// Day returns the slots for a weekday, never nil-aliasing the template.
func (t WeeklyTemplate) Day(day time.Weekday) []string {
	return append([]string(nil), t[day]...)
}

// AddSlot inserts a slot into a weekday, keeping order. Adding an existing
// slot is a no-op.
func (t WeeklyTemplate) AddSlot(day time.Weekday, clock string) error {
	if !ValidClock(clock) {
		return ErrInvalidClock
	}
	t[day] = insertSorted(t[day], clock)
	return nil
}

// RemoveSlot deletes a slot from a weekday.
func (t WeeklyTemplate) RemoveSlot(day time.Weekday, clock string) error {
	times, ok := removeValue(t[day], clock)
	if !ok {
		return ErrSlotNotFound
	}
	t[day] = times
	return nil
}

// EditSlot moves a slot to a new time. When the new time already exists on
// that weekday the edit is rejected and the old slot is kept; a silent
// delete of the old entry would lose availability.
func (t WeeklyTemplate) EditSlot(day time.Weekday, oldClock, newClock string) error {
	if !ValidClock(newClock) {
		return ErrInvalidClock
	}
	if !contains(t[day], oldClock) {
		return ErrSlotNotFound
	}
	if oldClock == newClock {
		return nil
	}
	if contains(t[day], newClock) {
		return ErrSlotExists
	}
	times, _ := removeValue(t[day], oldClock)
	t[day] = insertSorted(times, newClock)
	return nil
}

// DisableDay clears every slot on a weekday.
func (t WeeklyTemplate) DisableDay(day time.Weekday) {
	delete(t, day)
}

func insertSorted(times []string, clock string) []string {
	if contains(times, clock) {
		return times
	}
	times = append(times, clock)
	sort.Strings(times)
	return times
}

func removeValue(times []string, clock string) ([]string, bool) {
	for i, v := range times {
		if v == clock {
			return append(times[:i:i], times[i+1:]...), true
		}
	}
	return times, false
}

func contains(times []string, clock string) bool {
	for _, v := range times {
		if v == clock {
			return true
		}
	}
	return false
}
