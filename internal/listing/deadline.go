package listing

import "time"

var clockLayouts = []string{"15:04:05", "15:04"}

// IsExpired reports whether now is strictly after the deadline cutoff. The
// cutoff is the deadline date at clock in now's location, or 23:59:59 when
// clock is empty or not a valid time of day.
func IsExpired(hasDeadline bool, date *time.Time, clock string, now time.Time) bool {
	if !hasDeadline || date == nil {
		return false
	}
	return now.After(Cutoff(*date, clock, now.Location()))
}

func Cutoff(date time.Time, clock string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := date.Date()
	h, mi, s := 23, 59, 59
	if c, ok := parseClock(clock); ok {
		h, mi, s = c.Clock()
	}
	return time.Date(y, m, d, h, mi, s, 0, loc)
}

func parseClock(clock string) (time.Time, bool) {
	if clock == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidClock reports whether clock is empty or a valid HH:MM[:SS].
func ValidClock(clock string) bool {
	if clock == "" {
		return true
	}
	_, ok := parseClock(clock)
	return ok
}
