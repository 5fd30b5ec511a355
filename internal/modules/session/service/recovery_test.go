package service_test

import (
	"testing"
	"time"

	"journel/internal/modules/session/domain"
	"journel/internal/modules/session/service"
)

func TestReconcileLeavesFreshSessionAlone(t *testing.T) {
	t.Parallel()
	sess := domain.Session{ID: "s1", StartedAt: at(0), LastCheckpointAt: at(0)}

	got, orphaned := service.Reconcile(sess, at(2), 5*time.Minute)
	if orphaned {
		t.Fatal("session within threshold must not be orphaned")
	}
	if got.Ended() {
		t.Fatal("live session must stay live")
	}
}

func TestReconcileFinalizesOrphanAtLastCheckpoint(t *testing.T) {
	t.Parallel()
	// Killed right after start: checkpoint == start, zero recorded work.
	sess := domain.Session{ID: "s1", StartedAt: at(0), LastCheckpointAt: at(0)}

	got, orphaned := service.Reconcile(sess, at(60), 5*time.Minute)
	if !orphaned {
		t.Fatal("stale checkpoint must orphan the session")
	}
	if !got.EndedAt.Equal(at(0)) {
		t.Fatalf("orphan must end at last checkpoint, got %v", got.EndedAt)
	}
	if !got.Recovered {
		t.Fatal("orphan must be flagged recovered")
	}
	if elapsed := got.Elapsed(at(60)); elapsed != 0 {
		t.Fatalf("recovery must not invent elapsed time, got %v", elapsed)
	}
}

func TestReconcileClosesOpenPause(t *testing.T) {
	t.Parallel()
	sess := domain.Session{
		ID:               "s1",
		StartedAt:        at(0),
		Pauses:           []domain.PauseInterval{{PausedAt: at(10)}},
		LastCheckpointAt: at(20),
	}

	got, orphaned := service.Reconcile(sess, at(60), 5*time.Minute)
	if !orphaned {
		t.Fatal("expected orphan")
	}
	if got.OpenPause() >= 0 {
		t.Fatal("recovered session must not carry an open pause")
	}
	if elapsed := got.Elapsed(at(60)); elapsed != 10*time.Minute {
		t.Fatalf("expected 10m worked (paused from 10m to checkpoint), got %v", elapsed)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	t.Parallel()
	sess := domain.Session{ID: "s1", StartedAt: at(0), LastCheckpointAt: at(0)}

	first, orphaned := service.Reconcile(sess, at(60), 5*time.Minute)
	if !orphaned {
		t.Fatal("expected orphan on first pass")
	}
	second, again := service.Reconcile(first, at(120), 5*time.Minute)
	if again {
		t.Fatal("second pass on finalized session must be a no-op")
	}
	if !second.EndedAt.Equal(*first.EndedAt) {
		t.Fatal("second pass must not move the end timestamp")
	}
}
