package listing

import (
	"testing"
	"time"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return &d
}

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return ts
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name        string
		hasDeadline bool
		date        string
		clock       string
		now         string
		want        bool
	}{
		{name: "no deadline", hasDeadline: false, date: "2000-01-01", now: "2024-01-02T00:00:00", want: false},
		{name: "flag without date", hasDeadline: true, now: "2024-01-02T00:00:00", want: false},
		{name: "end of day default, next day", hasDeadline: true, date: "2024-01-01", now: "2024-01-02T00:00:01", want: true},
		{name: "end of day default, last second", hasDeadline: true, date: "2024-01-01", now: "2024-01-01T23:59:59", want: false},
		{name: "clock before cutoff", hasDeadline: true, date: "2024-01-01", clock: "18:00", now: "2024-01-01T17:59:59", want: false},
		{name: "clock exactly at cutoff", hasDeadline: true, date: "2024-01-01", clock: "18:00", now: "2024-01-01T18:00:00", want: false},
		{name: "clock after cutoff", hasDeadline: true, date: "2024-01-01", clock: "18:00", now: "2024-01-01T18:00:01", want: true},
		{name: "clock with seconds", hasDeadline: true, date: "2024-01-01", clock: "09:30:15", now: "2024-01-01T09:30:16", want: true},
		{name: "invalid clock falls back to end of day", hasDeadline: true, date: "2024-01-01", clock: "late", now: "2024-01-01T20:00:00", want: false},
		{name: "future date", hasDeadline: true, date: "2030-06-01", now: "2024-01-01T00:00:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d *time.Time
			if tt.date != "" {
				d = date(t, tt.date)
			}
			if got := IsExpired(tt.hasDeadline, d, tt.clock, at(t, tt.now)); got != tt.want {
				t.Fatalf("IsExpired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsExpired_NoDeadlineIgnoresEverything(t *testing.T) {
	past := date(t, "1999-12-31")
	for _, clock := range []string{"", "00:00", "junk"} {
		if IsExpired(false, past, clock, time.Now()) {
			t.Fatalf("expected false for clock %q", clock)
		}
	}
}

func TestCutoff_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	c := Cutoff(*date(t, "2024-03-10"), "", loc)
	if c.Location() != loc || c.Hour() != 23 || c.Minute() != 59 || c.Second() != 59 || c.Day() != 10 {
		t.Fatalf("unexpected cutoff %v", c)
	}
}

func TestValidClock(t *testing.T) {
	for _, ok := range []string{"", "18:00", "07:05:09"} {
		if !ValidClock(ok) {
			t.Errorf("expected %q valid", ok)
		}
	}
	for _, bad := range []string{"25:00", "6pm", "18"} {
		if ValidClock(bad) {
			t.Errorf("expected %q invalid", bad)
		}
	}
}
