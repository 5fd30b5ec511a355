package out

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"journel/internal/modules/session/domain"
	sessionout "journel/internal/modules/session/port/out"
	"journel/internal/platform/atomicfile"
	apperrors "journel/internal/platform/errors"
)

// FileActiveSessionStore keeps the canonical active-session record as a
// YAML file. Updates go through atomic rename only, so a killed process
// can never leave a torn record behind.
type FileActiveSessionStore struct {
	path string
}

func NewFileActiveSessionStore(path string) sessionout.ActiveSessionStore {
	return &FileActiveSessionStore{path: path}
}

type activeSessionRecord struct {
	SchemaVersion int            `yaml:"schema_version"`
	Session       domain.Session `yaml:"session"`
}

func (s *FileActiveSessionStore) SaveActive(_ context.Context, sess domain.Session) error {
	payload, err := yaml.Marshal(activeSessionRecord{SchemaVersion: domain.SchemaVersion, Session: sess})
	if err != nil {
		return fmt.Errorf("marshal active session: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	if err := atomicfile.Write(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("save active session: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context) (domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, apperrors.ErrNoActiveSession
		}
		return domain.Session{}, fmt.Errorf("read active session: %w", err)
	}
	record := activeSessionRecord{}
	if err := yaml.Unmarshal(payload, &record); err != nil {
		return domain.Session{}, fmt.Errorf("%w: decode %s: %v", apperrors.ErrCorruptRecord, s.path, err)
	}
	if record.Session.ID == "" || record.Session.StartedAt.IsZero() {
		return domain.Session{}, fmt.Errorf("%w: %s is missing required fields", apperrors.ErrCorruptRecord, s.path)
	}
	return record.Session, nil
}

func (s *FileActiveSessionStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear active session: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	return nil
}
