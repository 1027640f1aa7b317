package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadLocationFallback(t *testing.T) {
	if LoadLocation("") != time.UTC {
		t.Error("empty name should resolve to UTC")
	}
	if LoadLocation("Not/AZone") != time.UTC {
		t.Error("unknown zone should resolve to UTC")
	}
}

func TestTruncateDay(t *testing.T) {
	ts := time.Date(2026, 3, 14, 17, 45, 12, 0, time.UTC)
	got := TruncateDay(ts, time.UTC)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("TruncateDay = %v, want %v", got, want)
	}
}

func TestTruncateDayOtherZone(t *testing.T) {
	loc := time.FixedZone("UTC+5:30", 5*60*60+30*60)
	// 20:00 UTC is already the next day at UTC+5:30.
	ts := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	got := TruncateDay(ts, loc)
	if got.Day() != 15 {
		t.Errorf("TruncateDay day = %d, want 15", got.Day())
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 2, 26, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b, time.UTC); got != 4 {
		t.Errorf("DaysBetween = %d, want 4", got)
	}
	if got := DaysBetween(b, a, time.UTC); got != -4 {
		t.Errorf("DaysBetween reversed = %d, want -4", got)
	}
	if got := DaysBetween(a, a, time.UTC); got != 0 {
		t.Errorf("DaysBetween same = %d, want 0", got)
	}
}

func TestDayLabels(t *testing.T) {
	end := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	got := DayLabels(end, 3, time.UTC)
	want := []string{"Feb 28", "Mar 01", "Mar 02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DayLabels = %v, want %v", got, want)
	}
	if DayLabels(end, 0, time.UTC) != nil {
		t.Error("DayLabels(0) should be nil")
	}
}
