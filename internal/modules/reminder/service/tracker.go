package service

import (
	"sort"
	"time"
)

// Tracker decides which thresholds an observed session has newly crossed.
// Each threshold fires at most once per session: the fired set resets when
// a different session id is observed, and a threshold un-fires only if
// elapsed time genuinely drops back below it (which regular pause/resume
// never causes, since working time is monotonic).
//
// Tracker is not safe for concurrent use; the poller is its only caller.
type Tracker struct {
	thresholds []time.Duration
	sessionID  string
	fired      map[time.Duration]bool
}

func NewTracker(thresholds []time.Duration) *Tracker {
	sorted := append([]time.Duration(nil), thresholds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &Tracker{thresholds: sorted, fired: map[time.Duration]bool{}}
}

// Observe returns the thresholds newly crossed by the session's elapsed
// working duration, in ascending order.
func (t *Tracker) Observe(sessionID string, elapsed time.Duration) []time.Duration {
	if sessionID != t.sessionID {
		t.sessionID = sessionID
		t.fired = map[time.Duration]bool{}
	}
	for th := range t.fired {
		if elapsed < th {
			delete(t.fired, th)
		}
	}

	var crossed []time.Duration
	for _, th := range t.thresholds {
		if elapsed >= th && !t.fired[th] {
			t.fired[th] = true
			crossed = append(crossed, th)
		}
	}
	return crossed
}

// Crossed is the stateless variant used by one-shot CLI invocations: all
// thresholds at or below elapsed, in ascending order.
func Crossed(elapsed time.Duration, thresholds []time.Duration) []time.Duration {
	sorted := append([]time.Duration(nil), thresholds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []time.Duration
	for _, th := range sorted {
		if elapsed >= th {
			out = append(out, th)
		}
	}
	return out
}
