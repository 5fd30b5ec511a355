package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"journel/internal/modules/session/domain"
	sessionout "journel/internal/modules/session/port/out"
	"journel/internal/platform/atomicfile"
	apperrors "journel/internal/platform/errors"
)

// FileActiveBreakStore keeps the in-flight break record, with the same
// atomic-replace discipline as the active-session store.
type FileActiveBreakStore struct {
	path string
}

func NewFileActiveBreakStore(path string) sessionout.ActiveBreakStore {
	return &FileActiveBreakStore{path: path}
}

// Durations serialize as seconds to keep the record diff-friendly.
type activeBreakRecord struct {
	SchemaVersion  int        `yaml:"schema_version"`
	ID             string     `yaml:"id"`
	Kind           string     `yaml:"kind"`
	StartedAt      time.Time  `yaml:"started_at"`
	PlannedSeconds int64      `yaml:"planned_seconds"`
	ActualSeconds  int64      `yaml:"actual_seconds,omitempty"`
	EndedAt        *time.Time `yaml:"ended_at,omitempty"`
}

func (s *FileActiveBreakStore) SaveBreak(_ context.Context, b domain.Break) error {
	record := activeBreakRecord{
		SchemaVersion:  domain.SchemaVersion,
		ID:             b.ID,
		Kind:           b.Kind,
		StartedAt:      b.StartedAt,
		PlannedSeconds: int64(b.Planned.Seconds()),
		ActualSeconds:  int64(b.Actual.Seconds()),
		EndedAt:        b.EndedAt,
	}
	payload, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal active break: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	if err := atomicfile.Write(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("save active break: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	return nil
}

func (s *FileActiveBreakStore) LoadBreak(_ context.Context) (domain.Break, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Break{}, apperrors.ErrNoActiveBreak
		}
		return domain.Break{}, fmt.Errorf("read active break: %w", err)
	}
	record := activeBreakRecord{}
	if err := yaml.Unmarshal(payload, &record); err != nil {
		return domain.Break{}, fmt.Errorf("%w: decode %s: %v", apperrors.ErrCorruptRecord, s.path, err)
	}
	if record.ID == "" {
		return domain.Break{}, fmt.Errorf("%w: %s is missing required fields", apperrors.ErrCorruptRecord, s.path)
	}
	return domain.Break{
		ID:        record.ID,
		Kind:      record.Kind,
		StartedAt: record.StartedAt,
		Planned:   time.Duration(record.PlannedSeconds) * time.Second,
		Actual:    time.Duration(record.ActualSeconds) * time.Second,
		EndedAt:   record.EndedAt,
	}, nil
}

func (s *FileActiveBreakStore) ClearBreak(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear active break: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	return nil
}
