package schedule

import "time"

// Weekday display labels by locale, indexed by time.Weekday (Sunday = 0).
// The default is English; Hebrew matches the storefront the product ships
// with.
var dayLabels = map[string][7]string{
	"en": {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	"he": {"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"},
}

// DayName returns the localized weekday label, falling back to English for
// unknown locales.
func DayName(day time.Weekday, locale string) string {
	labels, ok := dayLabels[locale]
	if !ok {
		labels = dayLabels["en"]
	}
	return labels[int(day)%7]
}
