package utils

import (
	"time"
)

// LoadLocation resolves a time zone name for day bucketing. Unknown or
// empty names fall back to UTC, as does a missing tz database.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TruncateDay returns midnight of t's calendar day in loc.
func TruncateDay(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar days from a to b in loc.
// It is negative when b's day is before a's, and unaffected by DST shifts.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	da := TruncateDay(a, loc)
	db := TruncateDay(b, loc)
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// DayLabels returns short labels ("Jan 02") for the n days ending on end,
// oldest first.
func DayLabels(end time.Time, n int, loc *time.Location) []string {
	if n <= 0 {
		return nil
	}
	last := TruncateDay(end, loc)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = last.AddDate(0, 0, i-(n-1)).Format("Jan 02")
	}
	return labels
}

// FormatDateTime formats a time.Time to "2006-01-02 15:04:05 MST" in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04:05 MST")
}
