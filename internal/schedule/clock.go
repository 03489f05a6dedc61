package schedule

import (
	"regexp"
	"time"
)

// Slot times are "HH:MM" 24-hour strings and dates are ISO "YYYY-MM-DD".
// Weekday numbering follows Go's time.Weekday (Sunday = 0) everywhere;
// anything arriving in another convention is converted at the boundary.

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClock reports whether s is a valid "HH:MM" 24-hour time.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ValidDate reports whether s is a valid ISO "YYYY-MM-DD" date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ParseDate parses an ISO date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders t as an ISO date string.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// AddMinutes shifts an "HH:MM" clock value forward. The result wraps within
// the same day, which is fine for span checks because a slot list never
// crosses midnight.
func AddMinutes(clock string, minutes int) string {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(clockLayout)
}
