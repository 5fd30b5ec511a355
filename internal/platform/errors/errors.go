package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrNotPaused       = errors.New("session is not paused")
	ErrAlreadyActive   = errors.New("a session is already active")
	ErrNoActiveBreak   = errors.New("no active break")
	ErrBreakActive     = errors.New("a break is already running")

	// ErrCorruptRecord marks an on-disk record that is present but
	// unparsable. Callers self-heal by treating the record as absent.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrPersistence marks a failed durability write. The triggering
	// operation must not report success when this is returned.
	ErrPersistence = errors.New("persistence failure")
)
