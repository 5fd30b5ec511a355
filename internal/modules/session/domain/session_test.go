package domain_test

import (
	"testing"
	"time"

	"journel/internal/modules/session/domain"
)

func ts(min int) time.Time {
	return time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

func TestStateDerivation(t *testing.T) {
	t.Parallel()
	s := domain.Session{ID: "s1", SubjectID: "proj1", StartedAt: ts(0)}
	if s.State() != domain.StateActive {
		t.Fatalf("fresh session must be active, got %s", s.State())
	}

	s.Pauses = append(s.Pauses, domain.PauseInterval{PausedAt: ts(30)})
	if s.State() != domain.StatePaused {
		t.Fatalf("open pause must mean paused, got %s", s.State())
	}

	s.Pauses[0].ResumedAt = ptr(ts(40))
	if s.State() != domain.StateActive {
		t.Fatalf("closed pause must mean active, got %s", s.State())
	}

	s.EndedAt = ptr(ts(70))
	if s.State() != domain.StateNone {
		t.Fatalf("ended session occupies no state, got %s", s.State())
	}
}

func TestElapsedExcludesPausedTime(t *testing.T) {
	t.Parallel()
	// start 0m, pause 30m..40m, stop at 70m: 60m worked.
	s := domain.Session{
		ID:        "s1",
		SubjectID: "proj1",
		StartedAt: ts(0),
		EndedAt:   ptr(ts(70)),
		Pauses:    []domain.PauseInterval{{PausedAt: ts(30), ResumedAt: ptr(ts(40))}},
	}
	if got := s.Elapsed(ts(70)); got != 60*time.Minute {
		t.Fatalf("expected 60m worked, got %v", got)
	}
	if got := s.PausedTotal(ts(70)); got != 10*time.Minute {
		t.Fatalf("expected 10m paused, got %v", got)
	}
}

func TestElapsedWithOpenPauseCountsUpToNow(t *testing.T) {
	t.Parallel()
	s := domain.Session{
		ID:        "s1",
		SubjectID: "proj1",
		StartedAt: ts(0),
		Pauses:    []domain.PauseInterval{{PausedAt: ts(30)}},
	}
	// 45m of wall time, paused since 30m: still 30m worked.
	if got := s.Elapsed(ts(45)); got != 30*time.Minute {
		t.Fatalf("expected 30m worked while paused, got %v", got)
	}
}

func TestElapsedNeverNegative(t *testing.T) {
	t.Parallel()
	s := domain.Session{ID: "s1", SubjectID: "proj1", StartedAt: ts(10)}
	if got := s.Elapsed(ts(0)); got != 0 {
		t.Fatalf("backward clock must clamp to zero, got %v", got)
	}
}

func TestOpenPauseIndex(t *testing.T) {
	t.Parallel()
	s := domain.Session{
		Pauses: []domain.PauseInterval{
			{PausedAt: ts(5), ResumedAt: ptr(ts(10))},
			{PausedAt: ts(20)},
		},
	}
	if got := s.OpenPause(); got != 1 {
		t.Fatalf("expected open pause at index 1, got %d", got)
	}
}

func TestSubjectNameFallsBackToID(t *testing.T) {
	t.Parallel()
	s := domain.Session{SubjectID: "proj1"}
	if s.SubjectName() != "proj1" {
		t.Fatalf("expected raw id fallback, got %s", s.SubjectName())
	}
	s.Context = map[string]string{"subject_name": "Project One"}
	if s.SubjectName() != "Project One" {
		t.Fatalf("expected resolved name, got %s", s.SubjectName())
	}
}
