package out

import (
	"context"
	"time"

	"journel/internal/modules/session/domain"
)

// ActiveSessionStore owns the canonical active-session record. Absence of
// the record is the valid "no active session" state. Implementations must
// replace the record wholesale (temp file plus rename), never edit it in
// place.
type ActiveSessionStore interface {
	SaveActive(ctx context.Context, sess domain.Session) error
	// LoadActive returns apperrors.ErrNoActiveSession when the record is
	// absent and apperrors.ErrCorruptRecord when present but unparsable.
	LoadActive(ctx context.Context) (domain.Session, error)
	ClearActive(ctx context.Context) error
}

// ActiveBreakStore mirrors ActiveSessionStore for the independent break
// record.
type ActiveBreakStore interface {
	SaveBreak(ctx context.Context, b domain.Break) error
	LoadBreak(ctx context.Context) (domain.Break, error)
	ClearBreak(ctx context.Context) error
}

// HistoryStore is the append-only durable log, bucketed by month. Append
// is the only permitted mutation.
type HistoryStore interface {
	AppendSession(ctx context.Context, sess domain.Session) error
	AppendBreak(ctx context.Context, b domain.Break) error
	ReadMonth(ctx context.Context, month time.Time) (string, error)
}

// MonthTotals is the read-model aggregate kept by the index projector.
type MonthTotals struct {
	Sessions int
	Worked   time.Duration
	Paused   time.Duration
}

// SessionIndexProjector mirrors finalized sessions into a queryable index.
// It is best effort: the markdown history log is the durable truth.
type SessionIndexProjector interface {
	RecordSession(ctx context.Context, sess domain.Session) error
	MonthTotals(ctx context.Context, month time.Time) (MonthTotals, error)
}

// SubjectResolver maps an opaque subject id to the contextual fields
// captured in the session's context snapshot. Unknown subjects are not an
// error; validation belongs to the caller that owns the subjects.
type SubjectResolver interface {
	Resolve(ctx context.Context, subjectID string) (map[string]string, error)
}
