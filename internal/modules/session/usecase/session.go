package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"journel/internal/modules/session/domain"
	"journel/internal/modules/session/dto"
	sessionin "journel/internal/modules/session/port/in"
	sessionout "journel/internal/modules/session/port/out"
	"journel/internal/modules/session/service"
	apperrors "journel/internal/platform/errors"
)

// Interactor orchestrates the session state machine against the stores.
// The persistence adapter is the sole authority for "does an active
// session exist"; no session state is cached between operations.
type Interactor struct {
	svc             *service.SessionService
	activeStore     sessionout.ActiveSessionStore
	breakStore      sessionout.ActiveBreakStore
	history         sessionout.HistoryStore
	projector       sessionout.SessionIndexProjector
	resolver        sessionout.SubjectResolver
	orphanThreshold time.Duration

	recoverOnce sync.Once
	recovered   dto.RecoveryOutput
	recoverErr  error
}

func NewInteractor(
	svc *service.SessionService,
	activeStore sessionout.ActiveSessionStore,
	breakStore sessionout.ActiveBreakStore,
	history sessionout.HistoryStore,
	projector sessionout.SessionIndexProjector,
	resolver sessionout.SubjectResolver,
	orphanThreshold time.Duration,
) sessionin.Usecase {
	return &Interactor{
		svc:             svc,
		activeStore:     activeStore,
		breakStore:      breakStore,
		history:         history,
		projector:       projector,
		resolver:        resolver,
		orphanThreshold: orphanThreshold,
	}
}

// Recover reconciles on-disk state left behind by a dead process. It runs
// at most once per process; every other operation calls it first, so no
// session operation ever observes unreconciled state.
func (i *Interactor) Recover(ctx context.Context) (dto.RecoveryOutput, error) {
	i.recoverOnce.Do(func() {
		i.recovered, i.recoverErr = i.scan(ctx)
	})
	return i.recovered, i.recoverErr
}

func (i *Interactor) scan(ctx context.Context) (dto.RecoveryOutput, error) {
	sess, err := i.activeStore.LoadActive(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNoActiveSession):
		return dto.RecoveryOutput{}, nil
	case errors.Is(err, apperrors.ErrCorruptRecord):
		// Losing the record beats refusing to ever start new work.
		log.Warn().Err(err).Msg("active-session record corrupt, clearing")
		if cerr := i.activeStore.ClearActive(ctx); cerr != nil {
			return dto.RecoveryOutput{}, cerr
		}
		return dto.RecoveryOutput{CorruptCleared: true}, nil
	case err != nil:
		return dto.RecoveryOutput{}, err
	}

	now := i.svc.Now()
	reconciled, orphaned := service.Reconcile(sess, now, i.orphanThreshold)
	if !orphaned {
		return dto.RecoveryOutput{}, nil
	}
	if err := i.finalize(ctx, reconciled); err != nil {
		return dto.RecoveryOutput{}, fmt.Errorf("finalize orphaned session: %w", err)
	}
	log.Warn().
		Str("session", reconciled.ID).
		Time("last_checkpoint", reconciled.LastCheckpointAt).
		Msg("recovered orphaned session")
	view := i.view(reconciled, now)
	return dto.RecoveryOutput{Recovered: &view}, nil
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.StartOutput{}, err
	}
	if input.SubjectID == "" {
		return dto.StartOutput{}, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}

	var stopped *dto.SessionView
	existing, err := i.loadLive(ctx)
	switch {
	case err == nil:
		if !input.Force {
			return dto.StartOutput{}, apperrors.ErrAlreadyActive
		}
		finished, ferr := i.svc.Finish(existing, "interrupted by new session")
		if ferr != nil {
			return dto.StartOutput{}, ferr
		}
		if ferr := i.finalize(ctx, finished); ferr != nil {
			return dto.StartOutput{}, ferr
		}
		view := i.view(finished, *finished.EndedAt)
		stopped = &view
	case !errors.Is(err, apperrors.ErrNoActiveSession):
		return dto.StartOutput{}, err
	}

	snapshot := map[string]string{}
	if i.resolver != nil {
		resolved, rerr := i.resolver.Resolve(ctx, input.SubjectID)
		if rerr != nil {
			return dto.StartOutput{}, rerr
		}
		for k, v := range resolved {
			snapshot[k] = v
		}
	}
	for k, v := range input.Context {
		snapshot[k] = v
	}

	sess, err := i.svc.Begin(input.SubjectID, input.Label, snapshot)
	if err != nil {
		return dto.StartOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, sess); err != nil {
		return dto.StartOutput{}, err
	}
	return dto.StartOutput{Session: i.view(sess, i.svc.Now()), Stopped: stopped}, nil
}

func (i *Interactor) Pause(ctx context.Context) (dto.CurrentOutput, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.CurrentOutput{}, err
	}
	sess, err := i.loadLive(ctx)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	paused, changed, err := i.svc.Pause(sess)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	if changed {
		if err := i.activeStore.SaveActive(ctx, paused); err != nil {
			return dto.CurrentOutput{}, err
		}
	}
	return dto.CurrentOutput{Session: i.view(paused, i.svc.Now())}, nil
}

func (i *Interactor) Resume(ctx context.Context) (dto.CurrentOutput, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.CurrentOutput{}, err
	}
	sess, err := i.loadLive(ctx)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	resumed, err := i.svc.Resume(sess)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, resumed); err != nil {
		return dto.CurrentOutput{}, err
	}
	return dto.CurrentOutput{Session: i.view(resumed, i.svc.Now())}, nil
}

func (i *Interactor) Stop(ctx context.Context, input dto.StopInput) (dto.StopOutput, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.StopOutput{}, err
	}
	sess, err := i.loadLive(ctx)
	if err != nil {
		return dto.StopOutput{}, err
	}
	finished, err := i.svc.Finish(sess, input.Summary)
	if err != nil {
		return dto.StopOutput{}, err
	}
	if err := i.finalize(ctx, finished); err != nil {
		return dto.StopOutput{}, err
	}
	return dto.StopOutput{Session: i.view(finished, *finished.EndedAt)}, nil
}

// Switch is stop-if-active followed by start, atomic from the caller's
// perspective: one call, one combined result, no window for a crash to
// interleave two independent commands.
func (i *Interactor) Switch(ctx context.Context, input dto.StartInput) (dto.SwitchOutput, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.SwitchOutput{}, err
	}
	if input.SubjectID == "" {
		return dto.SwitchOutput{}, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}

	var previous *dto.SessionView
	if existing, err := i.loadLive(ctx); err == nil {
		finished, ferr := i.svc.Finish(existing, "switched to "+input.SubjectID)
		if ferr != nil {
			return dto.SwitchOutput{}, ferr
		}
		if ferr := i.finalize(ctx, finished); ferr != nil {
			return dto.SwitchOutput{}, ferr
		}
		view := i.view(finished, *finished.EndedAt)
		previous = &view
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return dto.SwitchOutput{}, err
	}

	started, err := i.Start(ctx, dto.StartInput{
		SubjectID: input.SubjectID,
		Label:     input.Label,
		Context:   input.Context,
	})
	if err != nil {
		return dto.SwitchOutput{}, err
	}
	return dto.SwitchOutput{Previous: previous, Session: started.Session}, nil
}

func (i *Interactor) Current(ctx context.Context) (dto.CurrentOutput, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.CurrentOutput{}, err
	}
	sess, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return dto.CurrentOutput{}, err
	}
	return dto.CurrentOutput{Session: i.view(sess, i.svc.Now())}, nil
}

func (i *Interactor) Checkpoint(ctx context.Context) error {
	if _, err := i.Recover(ctx); err != nil {
		return err
	}
	sess, err := i.loadLive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return nil
		}
		return err
	}
	return i.activeStore.SaveActive(ctx, i.svc.Checkpoint(sess))
}

// RunCheckpoints re-writes the active record on a fixed cadence so an
// abrupt termination loses at most one interval of fidelity. Returns when
// ctx is cancelled.
func (i *Interactor) RunCheckpoints(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := i.Checkpoint(ctx); err != nil {
				log.Warn().Err(err).Msg("periodic checkpoint failed")
			}
		}
	}
}

func (i *Interactor) StartBreak(ctx context.Context, input dto.BreakInput) (dto.BreakView, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.BreakView{}, err
	}
	if existing, err := i.breakStore.LoadBreak(ctx); err == nil && !existing.Ended() {
		return dto.BreakView{}, apperrors.ErrBreakActive
	} else if err != nil && !errors.Is(err, apperrors.ErrNoActiveBreak) && !errors.Is(err, apperrors.ErrCorruptRecord) {
		return dto.BreakView{}, err
	}

	b := i.svc.BeginBreak(input.Kind, input.Planned)
	if err := i.breakStore.SaveBreak(ctx, b); err != nil {
		return dto.BreakView{}, err
	}
	return breakView(b), nil
}

func (i *Interactor) EndBreak(ctx context.Context) (dto.BreakView, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.BreakView{}, err
	}
	b, err := i.breakStore.LoadBreak(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrCorruptRecord) {
			log.Warn().Err(err).Msg("active-break record corrupt, clearing")
			if cerr := i.breakStore.ClearBreak(ctx); cerr != nil {
				return dto.BreakView{}, cerr
			}
			return dto.BreakView{}, apperrors.ErrNoActiveBreak
		}
		return dto.BreakView{}, err
	}
	finished := i.svc.FinishBreak(b)
	if err := i.history.AppendBreak(ctx, finished); err != nil {
		return dto.BreakView{}, err
	}
	if err := i.breakStore.ClearBreak(ctx); err != nil {
		return dto.BreakView{}, err
	}
	return breakView(finished), nil
}

func (i *Interactor) History(ctx context.Context, month time.Time) (dto.HistoryOutput, error) {
	if _, err := i.Recover(ctx); err != nil {
		return dto.HistoryOutput{}, err
	}
	rendered, err := i.history.ReadMonth(ctx, month)
	if err != nil {
		return dto.HistoryOutput{}, err
	}
	out := dto.HistoryOutput{Month: month.Format("2006-01"), Rendered: rendered}
	if i.projector != nil {
		totals, terr := i.projector.MonthTotals(ctx, month)
		if terr != nil {
			log.Warn().Err(terr).Msg("session index unavailable for totals")
		} else {
			out.Sessions = totals.Sessions
			out.Worked = totals.Worked
			out.Paused = totals.Paused
		}
	}
	return out, nil
}

// finalize makes a terminated session durable: append to history (the
// operation fails here, leaving the active slot untouched, if the write
// fails), mirror into the index, then clear the active slot.
func (i *Interactor) finalize(ctx context.Context, sess domain.Session) error {
	if err := i.history.AppendSession(ctx, sess); err != nil {
		return err
	}
	if i.projector != nil {
		if err := i.projector.RecordSession(ctx, sess); err != nil {
			log.Warn().Err(err).Str("session", sess.ID).Msg("session index projection failed")
		}
	}
	return i.activeStore.ClearActive(ctx)
}

// loadLive reads the active record, self-healing corruption: a record we
// cannot parse is treated as absent, with a warning, rather than blocking
// the user from ever starting new work.
func (i *Interactor) loadLive(ctx context.Context) (domain.Session, error) {
	sess, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrCorruptRecord) {
			log.Warn().Err(err).Msg("active-session record corrupt, clearing")
			if cerr := i.activeStore.ClearActive(ctx); cerr != nil {
				return domain.Session{}, cerr
			}
			return domain.Session{}, apperrors.ErrNoActiveSession
		}
		return domain.Session{}, err
	}
	return sess, nil
}

func (i *Interactor) view(sess domain.Session, now time.Time) dto.SessionView {
	return dto.SessionView{
		SessionID:   sess.ID,
		SubjectID:   sess.SubjectID,
		SubjectName: sess.SubjectName(),
		Label:       sess.Label,
		State:       string(sess.State()),
		StartedAt:   sess.StartedAt,
		EndedAt:     sess.EndedAt,
		Elapsed:     sess.Elapsed(now),
		Paused:      sess.PausedTotal(now),
		Summary:     sess.Summary,
		Recovered:   sess.Recovered,
	}
}

func breakView(b domain.Break) dto.BreakView {
	return dto.BreakView{
		BreakID:   b.ID,
		Kind:      b.Kind,
		StartedAt: b.StartedAt,
		Planned:   b.Planned,
		Actual:    b.Actual,
		Ended:     b.Ended(),
	}
}
