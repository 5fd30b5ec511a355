package service

import (
	"time"

	"journel/internal/modules/session/domain"
	"journel/internal/platform/clock"
	apperrors "journel/internal/platform/errors"
	"journel/internal/platform/id"
	"journel/internal/platform/timeutil"
)

// SessionService owns the legal state transitions. All functions are pure
// with respect to I/O: they take and return sessions, and the usecase layer
// decides when a transition becomes durable.
type SessionService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewSessionService(clock clock.Clock, idGen id.Generator) *SessionService {
	return &SessionService{clock: clock, idGen: idGen}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

// Begin allocates a new active session. The context snapshot is copied so
// later caller mutations cannot leak into the immutable record.
func (s *SessionService) Begin(subjectID, label string, context map[string]string) (domain.Session, error) {
	if subjectID == "" {
		return domain.Session{}, apperrors.ErrInvalidInput
	}
	now := s.clock.Now()
	snapshot := make(map[string]string, len(context))
	for k, v := range context {
		snapshot[k] = v
	}
	return domain.Session{
		ID:               s.idGen.New(),
		SubjectID:        subjectID,
		Label:            label,
		StartedAt:        now,
		Context:          snapshot,
		LastCheckpointAt: now,
	}, nil
}

// Pause opens a pause interval. Pausing a paused session is a no-op; the
// second return reports whether the session actually changed.
func (s *SessionService) Pause(sess domain.Session) (domain.Session, bool, error) {
	switch sess.State() {
	case domain.StateNone:
		return domain.Session{}, false, apperrors.ErrNoActiveSession
	case domain.StatePaused:
		return sess, false, nil
	}
	now := s.clock.Now()
	sess.Pauses = append(sess.Pauses, domain.PauseInterval{PausedAt: now})
	sess.LastCheckpointAt = now
	return sess, true, nil
}

// Resume closes the open pause interval.
func (s *SessionService) Resume(sess domain.Session) (domain.Session, error) {
	if sess.State() != domain.StatePaused {
		return domain.Session{}, apperrors.ErrNotPaused
	}
	now := s.clock.Now()
	open := sess.OpenPause()
	sess.Pauses[open].ResumedAt = &now
	sess.LastCheckpointAt = now
	return sess, nil
}

// Finish terminates the session. A paused session has its open pause
// closed at the stop instant first: pause time counts until stop, not
// until a hypothetical future resume.
func (s *SessionService) Finish(sess domain.Session, summary string) (domain.Session, error) {
	if sess.State() == domain.StateNone {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	now := s.clock.Now()
	if open := sess.OpenPause(); open >= 0 {
		sess.Pauses[open].ResumedAt = &now
	}
	sess.EndedAt = &now
	sess.Summary = summary
	sess.LastCheckpointAt = now
	return sess, nil
}

// Checkpoint refreshes the durability timestamp on a live session.
func (s *SessionService) Checkpoint(sess domain.Session) domain.Session {
	sess.LastCheckpointAt = s.clock.Now()
	return sess
}

func (s *SessionService) BeginBreak(kind string, planned time.Duration) domain.Break {
	return domain.Break{
		ID:        s.idGen.New(),
		Kind:      kind,
		StartedAt: s.clock.Now(),
		Planned:   planned,
	}
}

func (s *SessionService) FinishBreak(b domain.Break) domain.Break {
	now := s.clock.Now()
	b.Actual = timeutil.Between(b.StartedAt, now)
	b.EndedAt = &now
	return b
}
