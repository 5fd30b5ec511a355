package domain

import (
	"time"

	"journel/internal/platform/timeutil"
)

const SchemaVersion = 1

// State of the session slot. At most one session is active (not yet
// ended) process-wide; paused sessions still occupy the slot.
type State string

const (
	StateNone   State = "none"
	StateActive State = "active"
	StatePaused State = "paused"
)

// PauseInterval is one pause/resume pair. A nil ResumedAt means the pause
// is still open; at most one interval may be open at a time.
type PauseInterval struct {
	PausedAt  time.Time  `yaml:"paused_at"`
	ResumedAt *time.Time `yaml:"resumed_at,omitempty"`
}

func (p PauseInterval) Open() bool {
	return p.ResumedAt == nil
}

func (p PauseInterval) duration(now time.Time) time.Duration {
	end := now
	if p.ResumedAt != nil {
		end = *p.ResumedAt
	}
	return timeutil.Between(p.PausedAt, end)
}

// Session is one continuous unit of attributed work. Once EndedAt is set
// the session is immutable.
type Session struct {
	ID        string     `yaml:"id"`
	SubjectID string     `yaml:"subject_id"`
	Label     string     `yaml:"label,omitempty"`
	StartedAt time.Time  `yaml:"started_at"`
	EndedAt   *time.Time `yaml:"ended_at,omitempty"`

	// Pauses are chronological and non-overlapping.
	Pauses []PauseInterval `yaml:"pauses,omitempty"`

	// Context is captured verbatim at creation and never mutated.
	Context map[string]string `yaml:"context,omitempty"`

	// LastCheckpointAt is the most recent durability write. It bounds
	// data loss on crash and is not part of the logical identity.
	LastCheckpointAt time.Time `yaml:"last_checkpoint_at"`

	Summary   string `yaml:"summary,omitempty"`
	Recovered bool   `yaml:"recovered,omitempty"`
}

func (s Session) Ended() bool {
	return s.EndedAt != nil
}

// OpenPause returns the index of the open pause interval, or -1.
func (s Session) OpenPause() int {
	for i := range s.Pauses {
		if s.Pauses[i].Open() {
			return i
		}
	}
	return -1
}

func (s Session) State() State {
	if s.Ended() {
		return StateNone
	}
	if s.OpenPause() >= 0 {
		return StatePaused
	}
	return StateActive
}

// PausedTotal sums all pause intervals; an open pause counts up to now.
func (s Session) PausedTotal(now time.Time) time.Duration {
	var total time.Duration
	for _, p := range s.Pauses {
		total += p.duration(now)
	}
	return total
}

// Elapsed is the working duration: wall time since start minus paused
// time. Every subtraction clamps at zero so a backward clock step can
// never produce a negative duration.
func (s Session) Elapsed(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	wall := timeutil.Between(s.StartedAt, end)
	paused := s.PausedTotal(end)
	if paused > wall {
		return 0
	}
	return wall - paused
}

// SubjectName is the human-readable name resolved into the context
// snapshot at start, falling back to the raw subject id.
func (s Session) SubjectName() string {
	if name, ok := s.Context["subject_name"]; ok && name != "" {
		return name
	}
	return s.SubjectID
}

// Break is a bounded rest interval, independent of a session's pause
// mechanism: breaks can be logged with or without an active session.
type Break struct {
	ID        string
	Kind      string
	StartedAt time.Time
	Planned   time.Duration
	Actual    time.Duration
	EndedAt   *time.Time
}

func (b Break) Ended() bool {
	return b.EndedAt != nil
}
