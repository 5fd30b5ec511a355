package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"journel/internal/modules/session/adapter/out"
	"journel/internal/modules/session/domain"
	apperrors "journel/internal/platform/errors"
)

func TestActiveSessionRoundTrip(t *testing.T) {
	t.Parallel()
	store := out.NewFileActiveSessionStore(filepath.Join(t.TempDir(), "active-session.yaml"))

	resumed := time.Date(2026, 8, 27, 10, 40, 0, 0, time.UTC)
	sess := domain.Session{
		ID:        "sess-1",
		SubjectID: "proj1",
		Label:     "docs",
		StartedAt: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Pauses: []domain.PauseInterval{
			{PausedAt: time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC), ResumedAt: &resumed},
		},
		Context:          map[string]string{"subject_name": "Project One"},
		LastCheckpointAt: time.Date(2026, 8, 27, 10, 45, 0, 0, time.UTC),
	}
	if err := store.SaveActive(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.LoadActive(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, sess) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, sess)
	}
}

func TestLoadActiveAbsentMeansNoSession(t *testing.T) {
	t.Parallel()
	store := out.NewFileActiveSessionStore(filepath.Join(t.TempDir(), "active-session.yaml"))

	if _, err := store.LoadActive(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestLoadActiveCorruptRecordIsDistinctError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active-session.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	store := out.NewFileActiveSessionStore(path)

	_, err := store.LoadActive(context.Background())
	if !errors.Is(err, apperrors.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestLoadActiveMissingFieldsIsCorrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active-session.yaml")
	if err := os.WriteFile(path, []byte("schema_version: 1\nsession: {}\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store := out.NewFileActiveSessionStore(path)

	if _, err := store.LoadActive(context.Background()); !errors.Is(err, apperrors.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord for empty session, got %v", err)
	}
}

func TestClearActiveIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active-session.yaml")
	store := out.NewFileActiveSessionStore(path)

	sess := domain.Session{ID: "sess-1", SubjectID: "proj1", StartedAt: time.Now().UTC(), LastCheckpointAt: time.Now().UTC()}
	if err := store.SaveActive(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.ClearActive(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.ClearActive(context.Background()); err != nil {
		t.Fatalf("second clear must be a no-op: %v", err)
	}
	if _, err := store.LoadActive(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no session after clear, got %v", err)
	}
}
