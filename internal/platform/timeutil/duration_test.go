package timeutil_test

import (
	"testing"
	"time"

	"journel/internal/platform/timeutil"
)

func TestFormat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{42 * time.Second, "42s"},
		{59*time.Second + 600*time.Millisecond, "1m"},
		{45 * time.Minute, "45m"},
		{time.Hour + 2*time.Minute, "1h 02m"},
		{26*time.Hour + 30*time.Minute, "26h 30m"},
		{-5 * time.Minute, "0s"},
	}
	for _, tc := range cases {
		if got := timeutil.Format(tc.in); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBetweenClampsBackwardClock(t *testing.T) {
	t.Parallel()
	later := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	earlier := later.Add(-10 * time.Minute)

	if got := timeutil.Between(earlier, later); got != 10*time.Minute {
		t.Fatalf("expected 10m, got %v", got)
	}
	if got := timeutil.Between(later, earlier); got != 0 {
		t.Fatalf("clock regression must clamp to zero, got %v", got)
	}
}
