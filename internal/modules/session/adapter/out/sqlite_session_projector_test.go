package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"journel/internal/modules/session/adapter/out"
)

func TestProjectorRecordsOncePerSession(t *testing.T) {
	t.Parallel()
	projector, err := out.NewSQLiteSessionProjector(filepath.Join(t.TempDir(), ".meta", "sessions.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}

	sess := finalized(t)
	if err := projector.RecordSession(context.Background(), sess); err != nil {
		t.Fatalf("record: %v", err)
	}
	// Recovery re-runs replay the same finalized session; immutability
	// means the replay is ignored, not duplicated.
	if err := projector.RecordSession(context.Background(), sess); err != nil {
		t.Fatalf("replay record: %v", err)
	}

	totals, err := projector.MonthTotals(context.Background(), sess.StartedAt)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Sessions != 1 {
		t.Fatalf("expected one indexed session, got %d", totals.Sessions)
	}
	if totals.Worked != 62*time.Minute {
		t.Fatalf("expected 62m worked, got %v", totals.Worked)
	}
	if totals.Paused != 6*time.Minute {
		t.Fatalf("expected 6m paused, got %v", totals.Paused)
	}
}

func TestProjectorRejectsLiveSession(t *testing.T) {
	t.Parallel()
	projector, err := out.NewSQLiteSessionProjector(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	live := finalized(t)
	live.EndedAt = nil
	if err := projector.RecordSession(context.Background(), live); err == nil {
		t.Fatal("live sessions must not be indexed")
	}
}

func TestMonthTotalsEmptyMonth(t *testing.T) {
	t.Parallel()
	projector, err := out.NewSQLiteSessionProjector(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	totals, err := projector.MonthTotals(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Sessions != 0 || totals.Worked != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}
