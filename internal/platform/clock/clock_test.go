package clock_test

import (
	"testing"
	"time"

	"davomat/internal/platform/clock"
)

func TestFormatDurationFloorsHoursAndMinutes(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		end  time.Time
		want string
	}{
		{start.Add(9*time.Hour + 30*time.Minute), "9 soat 30 daqiqa"},
		{start.Add(59*time.Second), "0 soat 0 daqiqa"},
		{start.Add(2*time.Hour + 5*time.Minute + 59*time.Second), "2 soat 5 daqiqa"},
		{start.Add(-time.Hour), "0 soat 0 daqiqa"},
	}
	for _, tc := range cases {
		if got := clock.FormatDuration(start, tc.end); got != tc.want {
			t.Fatalf("duration to %s: expected %q, got %q", tc.end, tc.want, got)
		}
	}
}

func TestLocaleRendersZoneLocalStrings(t *testing.T) {
	t.Parallel()
	loc, err := clock.NewLocale("Asia/Samarkand")
	if err != nil {
		t.Fatalf("new locale: %v", err)
	}
	instant := time.Date(2024, 4, 30, 21, 15, 0, 0, time.UTC)
	if got := loc.Date(instant); got != "2024-05-01" {
		t.Fatalf("expected next-day local date, got %s", got)
	}
	if got := loc.Time(instant); got != "02:15:00" {
		t.Fatalf("expected local time 02:15:00, got %s", got)
	}
	if got := loc.DateTime(instant); got != "2024-05-01 02:15:00" {
		t.Fatalf("unexpected datetime %s", got)
	}
	if _, err := clock.NewLocale("Nowhere/Special"); err == nil {
		t.Fatalf("unknown zone must fail")
	}
}

func TestValidDate(t *testing.T) {
	t.Parallel()
	if !clock.ValidDate("2024-02-29") {
		t.Fatalf("leap day should be valid")
	}
	for _, bad := range []string{"", "2024-2-1", "2023-02-29", "01.05.2024"} {
		if clock.ValidDate(bad) {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}
