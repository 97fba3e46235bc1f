package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ClockLayout is the 24h kickoff format shown on the rendered page.
const ClockLayout = "15:04"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateWithOffset returns the calendar date offsetDays away from t, as seen in loc.
// The calendar is shifted rather than adding 24h so DST transitions never skip a day.
func DateWithOffset(t time.Time, loc *time.Location, offsetDays int) string {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	y, m, d := local.Date()
	return FormatDate(time.Date(y, m, d+offsetDays, 12, 0, 0, 0, loc))
}
