// Package timeutil holds the duration math shared by the session state
// machine, the history log and the CLI renderers.
package timeutil

import (
	"fmt"
	"time"
)

// Format renders a duration for humans: "42s", "45m", "1h 02m".
// Sub-minute durations show seconds; anything longer drops them.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// Between returns to − from, clamped to zero. Wall clocks can move
// backward (NTP corrections); negative deltas must never escape into
// elapsed-time accounting.
func Between(from, to time.Time) time.Duration {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return d
}
