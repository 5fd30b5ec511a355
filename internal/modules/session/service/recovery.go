package service

import (
	"time"

	"journel/internal/modules/session/domain"
)

// Reconcile classifies an active-session record found at startup. A record
// whose checkpoint is older than threshold is orphaned: the owning process
// almost certainly died. The orphan is finalized at its last checkpoint,
// not at now — work did not continue past the last durable write, and
// recovery must never inflate elapsed time.
//
// Running Reconcile again on its own output is a no-op: it only acts on
// sessions that are not yet ended.
func Reconcile(sess domain.Session, now time.Time, threshold time.Duration) (domain.Session, bool) {
	if sess.Ended() {
		return sess, false
	}
	if now.Sub(sess.LastCheckpointAt) <= threshold {
		return sess, false
	}

	endedAt := sess.LastCheckpointAt
	if open := sess.OpenPause(); open >= 0 {
		// The pause was open when the process died; close it at the
		// effective end so the record stays well formed.
		resumed := endedAt
		if sess.Pauses[open].PausedAt.After(resumed) {
			resumed = sess.Pauses[open].PausedAt
		}
		sess.Pauses[open].ResumedAt = &resumed
	}
	sess.EndedAt = &endedAt
	sess.Recovered = true
	if sess.Summary == "" {
		sess.Summary = "recovered after abnormal termination"
	}
	return sess, true
}
