package dto

import "time"

// SessionView is the caller-facing rendering of a session: everything a
// command needs to print state and timing without re-deriving the math.
type SessionView struct {
	SessionID   string
	SubjectID   string
	SubjectName string
	Label       string
	State       string
	StartedAt   time.Time
	EndedAt     *time.Time
	Elapsed     time.Duration
	Paused      time.Duration
	Summary     string
	Recovered   bool
}

type StartInput struct {
	SubjectID string
	Label     string
	// Context entries are merged over whatever the subject resolver
	// finds; caller-provided values win.
	Context map[string]string
	// Force auto-terminates an existing live session instead of failing
	// with ErrAlreadyActive.
	Force bool
}

type StartOutput struct {
	Session SessionView
	// Stopped carries the previous session when Force terminated one, so
	// callers can surface the implicit stop instead of hiding it.
	Stopped *SessionView
}

type StopInput struct {
	Summary string
}

type StopOutput struct {
	Session SessionView
}

type CurrentOutput struct {
	Session SessionView
}

type SwitchOutput struct {
	Previous *SessionView
	Session  SessionView
}

// RecoveryOutput reports what the startup scan found. Both fields zero
// means the on-disk state was already consistent.
type RecoveryOutput struct {
	Recovered      *SessionView
	CorruptCleared bool
}

type BreakInput struct {
	Kind    string
	Planned time.Duration
}

type BreakView struct {
	BreakID   string
	Kind      string
	StartedAt time.Time
	Planned   time.Duration
	Actual    time.Duration
	Ended     bool
}

type HistoryOutput struct {
	Month    string
	Rendered string
	Sessions int
	Worked   time.Duration
	Paused   time.Duration
}
