package in

import (
	"context"
	"time"

	"journel/internal/modules/session/dto"
	sessionin "journel/internal/modules/session/port/in"
)

// CLIHandler is the thin façade the command layer talks to.
type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Recover(ctx context.Context) (dto.RecoveryOutput, error) {
	return h.usecase.Recover(ctx)
}

func (h CLIHandler) Start(ctx context.Context, subjectID, label string, force bool) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{SubjectID: subjectID, Label: label, Force: force})
}

func (h CLIHandler) Pause(ctx context.Context) (dto.CurrentOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (dto.CurrentOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Stop(ctx context.Context, summary string) (dto.StopOutput, error) {
	return h.usecase.Stop(ctx, dto.StopInput{Summary: summary})
}

func (h CLIHandler) Switch(ctx context.Context, subjectID, label string) (dto.SwitchOutput, error) {
	return h.usecase.Switch(ctx, dto.StartInput{SubjectID: subjectID, Label: label})
}

func (h CLIHandler) Current(ctx context.Context) (dto.CurrentOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Checkpoint(ctx context.Context) error {
	return h.usecase.Checkpoint(ctx)
}

func (h CLIHandler) RunCheckpoints(ctx context.Context, interval time.Duration) error {
	return h.usecase.RunCheckpoints(ctx, interval)
}

func (h CLIHandler) StartBreak(ctx context.Context, kind string, planned time.Duration) (dto.BreakView, error) {
	return h.usecase.StartBreak(ctx, dto.BreakInput{Kind: kind, Planned: planned})
}

func (h CLIHandler) EndBreak(ctx context.Context) (dto.BreakView, error) {
	return h.usecase.EndBreak(ctx)
}

func (h CLIHandler) History(ctx context.Context, month time.Time) (dto.HistoryOutput, error) {
	return h.usecase.History(ctx, month)
}
