package service_test

import (
	"errors"
	"testing"
	"time"

	"journel/internal/modules/session/domain"
	"journel/internal/modules/session/service"
	apperrors "journel/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{ next string }

func (f fakeID) New() string { return f.next }

func at(min int) time.Time {
	return time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
}

func TestBeginCapturesSnapshotAndCheckpoint(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(0)}}
	svc := service.NewSessionService(clk, fakeID{next: "sess-1"})

	context := map[string]string{"subject_name": "Project One"}
	sess, err := svc.Begin("proj1", "docs", context)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if sess.ID != "sess-1" || sess.StartedAt != at(0) || sess.LastCheckpointAt != at(0) {
		t.Fatalf("unexpected session %+v", sess)
	}

	// The snapshot must be a copy, not an alias.
	context["subject_name"] = "mutated"
	if sess.Context["subject_name"] != "Project One" {
		t.Fatal("context snapshot aliased caller map")
	}

	if _, err := svc.Begin("", "", nil); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("empty subject id must be rejected, got %v", err)
	}
}

func TestPauseResumeFinishSequence(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(0), at(30), at(40), at(70)}}
	svc := service.NewSessionService(clk, fakeID{next: "sess-1"})

	sess, err := svc.Begin("proj1", "", nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	sess, changed, err := svc.Pause(sess)
	if err != nil || !changed {
		t.Fatalf("pause: changed=%v err=%v", changed, err)
	}
	if sess.State() != domain.StatePaused {
		t.Fatalf("expected paused, got %s", sess.State())
	}

	sess, err = svc.Resume(sess)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if sess.State() != domain.StateActive {
		t.Fatalf("expected active after resume, got %s", sess.State())
	}

	sess, err = svc.Finish(sess, "done")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !sess.Ended() || !sess.EndedAt.Equal(at(70)) {
		t.Fatalf("expected ended at %v, got %+v", at(70), sess.EndedAt)
	}
	if got := sess.Elapsed(at(70)); got != 60*time.Minute {
		t.Fatalf("expected 60m worked, got %v", got)
	}
}

func TestPauseIsNoOpWhenAlreadyPaused(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(0), at(10), at(20)}}
	svc := service.NewSessionService(clk, fakeID{next: "sess-1"})

	sess, _ := svc.Begin("proj1", "", nil)
	sess, _, _ = svc.Pause(sess)

	again, changed, err := svc.Pause(sess)
	if err != nil {
		t.Fatalf("second pause: %v", err)
	}
	if changed {
		t.Fatal("second pause must be a no-op")
	}
	if len(again.Pauses) != 1 {
		t.Fatalf("expected single pause interval, got %d", len(again.Pauses))
	}
}

func TestResumeRequiresPausedState(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(0)}}
	svc := service.NewSessionService(clk, fakeID{next: "sess-1"})

	sess, _ := svc.Begin("proj1", "", nil)
	if _, err := svc.Resume(sess); !errors.Is(err, apperrors.ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}
}

func TestFinishWhilePausedClosesPauseAtStop(t *testing.T) {
	t.Parallel()
	// start 0m, pause 30m, stop 50m: pause counts until stop => 30m worked.
	clk := &fakeClock{values: []time.Time{at(0), at(30), at(50)}}
	svc := service.NewSessionService(clk, fakeID{next: "sess-1"})

	sess, _ := svc.Begin("proj1", "", nil)
	sess, _, _ = svc.Pause(sess)
	sess, err := svc.Finish(sess, "")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if sess.OpenPause() >= 0 {
		t.Fatal("finish must close the open pause")
	}
	if got := sess.Elapsed(at(50)); got != 30*time.Minute {
		t.Fatalf("expected 30m worked, got %v", got)
	}
	if got := sess.PausedTotal(at(50)); got != 20*time.Minute {
		t.Fatalf("expected 20m paused, got %v", got)
	}
}

func TestBreakLifecycle(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{at(0), at(12)}}
	svc := service.NewSessionService(clk, fakeID{next: "brk-1"})

	b := svc.BeginBreak("coffee", 10*time.Minute)
	if b.Kind != "coffee" || b.Planned != 10*time.Minute || b.Ended() {
		t.Fatalf("unexpected break %+v", b)
	}
	b = svc.FinishBreak(b)
	if !b.Ended() || b.Actual != 12*time.Minute {
		t.Fatalf("expected 12m actual, got %+v", b)
	}
}
