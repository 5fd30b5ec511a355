package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"journel/internal/modules/session/domain"
	sessionout "journel/internal/modules/session/port/out"
	apperrors "journel/internal/platform/errors"
	"journel/internal/platform/markdown"
	"journel/internal/platform/timeutil"
)

// MonthlyHistoryStore appends finalized sessions and breaks to
// human-readable month files (logs/2026-08.md). Appending is the only
// mutation; history is never rewritten in place.
type MonthlyHistoryStore struct {
	dir string
	mu  sync.Mutex
}

func NewMonthlyHistoryStore(dir string) sessionout.HistoryStore {
	return &MonthlyHistoryStore{dir: dir}
}

func (s *MonthlyHistoryStore) AppendSession(_ context.Context, sess domain.Session) error {
	if !sess.Ended() {
		return fmt.Errorf("history: %w: session %s is not finalized", apperrors.ErrInvalidInput, sess.ID)
	}
	return s.append(sess.StartedAt, renderSessionEntry(sess))
}

func (s *MonthlyHistoryStore) AppendBreak(_ context.Context, b domain.Break) error {
	if !b.Ended() {
		return fmt.Errorf("history: %w: break %s is not finalized", apperrors.ErrInvalidInput, b.ID)
	}
	return s.append(b.StartedAt, renderBreakEntry(b))
}

func (s *MonthlyHistoryStore) ReadMonth(_ context.Context, month time.Time) (string, error) {
	raw, err := os.ReadFile(s.monthPath(month))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read history month: %w", err)
	}
	return string(raw), nil
}

func (s *MonthlyHistoryStore) monthPath(t time.Time) string {
	return filepath.Join(s.dir, t.Format("2006-01")+".md")
}

func (s *MonthlyHistoryStore) append(startedAt time.Time, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	path := s.monthPath(startedAt)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.createMonthFile(path, startedAt); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history month: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	defer file.Close()
	if _, err := file.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("append history entry: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync history month: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	return nil
}

func (s *MonthlyHistoryStore) createMonthFile(path string, t time.Time) error {
	meta := map[string]any{
		"schema_version": domain.SchemaVersion,
		"month":          t.Format("2006-01"),
	}
	header, err := markdown.RenderFrontmatter(meta, fmt.Sprintf("# %s activity log\n\n", t.Format("January 2006")))
	if err != nil {
		return fmt.Errorf("render history header: %w", err)
	}
	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		return fmt.Errorf("create history month: %w", errors.Join(apperrors.ErrPersistence, err))
	}
	return nil
}

// renderSessionEntry produces one line per finalized session: subject,
// label, start/end, paused total and worked total.
func renderSessionEntry(sess domain.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s %s → %s **%s**",
		sess.StartedAt.Format("2006-01-02"),
		sess.StartedAt.Format("15:04"),
		sess.EndedAt.Format("15:04"),
		sess.SubjectName(),
	)
	if sess.Label != "" {
		fmt.Fprintf(&b, ": %s", sess.Label)
	}
	end := *sess.EndedAt
	fmt.Fprintf(&b, " (worked %s", timeutil.Format(sess.Elapsed(end)))
	if paused := sess.PausedTotal(end); paused > 0 {
		fmt.Fprintf(&b, ", paused %s", timeutil.Format(paused))
	}
	b.WriteString(")")
	if sess.Summary != "" && !sess.Recovered {
		fmt.Fprintf(&b, " — %s", sess.Summary)
	}
	if sess.Recovered {
		b.WriteString(" [recovered]")
	}
	fmt.Fprintf(&b, " <!--session:%s-->", sess.ID)
	return b.String()
}

func renderBreakEntry(b domain.Break) string {
	kind := b.Kind
	if kind == "" {
		kind = "break"
	}
	return fmt.Sprintf("- %s %s break (%s): %s of planned %s <!--break:%s-->",
		b.StartedAt.Format("2006-01-02"),
		b.StartedAt.Format("15:04"),
		kind,
		timeutil.Format(b.Actual),
		timeutil.Format(b.Planned),
		b.ID,
	)
}
