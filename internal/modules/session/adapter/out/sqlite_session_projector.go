package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"journel/internal/modules/session/domain"
	sessionout "journel/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteSessionProjector mirrors finalized sessions into a queryable
// index. The markdown history log stays the durable truth; this table is
// a derived read model and can be rebuilt from it.
type SQLiteSessionProjector struct {
	db *sql.DB
}

func NewSQLiteSessionProjector(dbPath string) (sessionout.SessionIndexProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteSessionProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteSessionProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  subject_id TEXT NOT NULL,
  subject_name TEXT NOT NULL,
  label TEXT,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  worked_seconds INTEGER NOT NULL,
  paused_seconds INTEGER NOT NULL,
  recovered INTEGER NOT NULL DEFAULT 0,
  summary TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// RecordSession inserts once per session id. Finalized sessions are
// immutable, so replays (recovery re-runs, rebuilds) are ignored.
func (s *SQLiteSessionProjector) RecordSession(ctx context.Context, sess domain.Session) error {
	if !sess.Ended() {
		return fmt.Errorf("project session %s: not finalized", sess.ID)
	}
	const stmt = `
INSERT OR IGNORE INTO sessions (id, subject_id, subject_name, label, started_at, ended_at, worked_seconds, paused_seconds, recovered, summary)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	end := *sess.EndedAt
	recovered := 0
	if sess.Recovered {
		recovered = 1
	}
	_, err := s.db.ExecContext(ctx, stmt,
		sess.ID,
		sess.SubjectID,
		sess.SubjectName(),
		sess.Label,
		sess.StartedAt.Format(time.RFC3339),
		end.Format(time.RFC3339),
		int64(sess.Elapsed(end).Seconds()),
		int64(sess.PausedTotal(end).Seconds()),
		recovered,
		sess.Summary,
	)
	if err != nil {
		return fmt.Errorf("project session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionProjector) MonthTotals(ctx context.Context, month time.Time) (sessionout.MonthTotals, error) {
	const stmt = `
SELECT COUNT(*), COALESCE(SUM(worked_seconds), 0), COALESCE(SUM(paused_seconds), 0)
FROM sessions WHERE started_at LIKE ?;
`
	row := s.db.QueryRowContext(ctx, stmt, month.Format("2006-01")+"%")
	var count int
	var worked, paused int64
	if err := row.Scan(&count, &worked, &paused); err != nil {
		return sessionout.MonthTotals{}, fmt.Errorf("query month totals: %w", err)
	}
	return sessionout.MonthTotals{
		Sessions: count,
		Worked:   time.Duration(worked) * time.Second,
		Paused:   time.Duration(paused) * time.Second,
	}, nil
}
