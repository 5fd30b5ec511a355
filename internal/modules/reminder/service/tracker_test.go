package service_test

import (
	"testing"
	"time"

	"journel/internal/modules/reminder/service"
)

func TestObserveFiresEachThresholdOnce(t *testing.T) {
	t.Parallel()
	tracker := service.NewTracker([]time.Duration{50 * time.Minute, 2 * time.Hour})

	if got := tracker.Observe("s1", 10*time.Minute); len(got) != 0 {
		t.Fatalf("nothing should fire at 10m, got %v", got)
	}
	got := tracker.Observe("s1", 51*time.Minute)
	if len(got) != 1 || got[0] != 50*time.Minute {
		t.Fatalf("expected 50m to fire once, got %v", got)
	}
	// Same elapsed again, e.g. after a pause/resume: no re-fire.
	if got := tracker.Observe("s1", 55*time.Minute); len(got) != 0 {
		t.Fatalf("threshold must not re-fire, got %v", got)
	}
	got = tracker.Observe("s1", 125*time.Minute)
	if len(got) != 1 || got[0] != 2*time.Hour {
		t.Fatalf("expected 2h to fire, got %v", got)
	}
}

func TestObserveFiresMultipleCrossingsInOrder(t *testing.T) {
	t.Parallel()
	tracker := service.NewTracker([]time.Duration{2 * time.Hour, 50 * time.Minute})

	got := tracker.Observe("s1", 3*time.Hour)
	if len(got) != 2 || got[0] != 50*time.Minute || got[1] != 2*time.Hour {
		t.Fatalf("expected ascending [50m 2h], got %v", got)
	}
}

func TestObserveResetsOnNewSession(t *testing.T) {
	t.Parallel()
	tracker := service.NewTracker([]time.Duration{50 * time.Minute})

	if got := tracker.Observe("s1", time.Hour); len(got) != 1 {
		t.Fatalf("expected fire for s1, got %v", got)
	}
	if got := tracker.Observe("s2", time.Hour); len(got) != 1 {
		t.Fatalf("new session must reset the fired set, got %v", got)
	}
}

func TestObserveUnfiresWhenElapsedDrops(t *testing.T) {
	t.Parallel()
	tracker := service.NewTracker([]time.Duration{50 * time.Minute})

	if got := tracker.Observe("s1", time.Hour); len(got) != 1 {
		t.Fatalf("expected fire, got %v", got)
	}
	if got := tracker.Observe("s1", 10*time.Minute); len(got) != 0 {
		t.Fatalf("nothing fires below threshold, got %v", got)
	}
	if got := tracker.Observe("s1", time.Hour); len(got) != 1 {
		t.Fatalf("threshold may fire again after elapsed dropped below it, got %v", got)
	}
}

func TestCrossedStateless(t *testing.T) {
	t.Parallel()
	thresholds := []time.Duration{2 * time.Hour, 50 * time.Minute}
	if got := service.Crossed(30*time.Minute, thresholds); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
	got := service.Crossed(2*time.Hour, thresholds)
	if len(got) != 2 || got[0] != 50*time.Minute {
		t.Fatalf("expected [50m 2h], got %v", got)
	}
}
