package in

import (
	"context"
	"time"

	"journel/internal/modules/session/dto"
)

// Usecase is the session subsystem's surface for the command layer and
// any long-lived companion (watch view, reminder poller).
type Usecase interface {
	// Recover runs the crash-recovery scan. The interactor also runs it
	// implicitly before the first operation; calling it explicitly lets
	// the command layer surface recovery events to the user. Idempotent.
	Recover(ctx context.Context) (dto.RecoveryOutput, error)

	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Pause(ctx context.Context) (dto.CurrentOutput, error)
	Resume(ctx context.Context) (dto.CurrentOutput, error)
	Stop(ctx context.Context, input dto.StopInput) (dto.StopOutput, error)
	Switch(ctx context.Context, input dto.StartInput) (dto.SwitchOutput, error)

	// Current is read-only: it never blocks on more than a single local
	// file read and never mutates state.
	Current(ctx context.Context) (dto.CurrentOutput, error)

	// Checkpoint refreshes last_checkpoint_at on the live session, if
	// any. RunCheckpoints does so periodically until ctx is done.
	Checkpoint(ctx context.Context) error
	RunCheckpoints(ctx context.Context, interval time.Duration) error

	StartBreak(ctx context.Context, input dto.BreakInput) (dto.BreakView, error)
	EndBreak(ctx context.Context) (dto.BreakView, error)

	History(ctx context.Context, month time.Time) (dto.HistoryOutput, error)
}
