package in

import (
	"context"

	"journel/internal/modules/reminder/dto"
)

// Usecase surfaces break/elapsed-time reminders. Run is for long-lived
// hosts (the watch view); CheckOnce serves one-shot CLI invocations.
type Usecase interface {
	// Run polls the session state until ctx is done, emitting on Events.
	// It is strictly read-only with respect to session state.
	Run(ctx context.Context) error
	Events() <-chan dto.Event

	// CheckOnce reports every threshold the current session has already
	// crossed, without recording any fired state.
	CheckOnce(ctx context.Context) ([]dto.Event, error)
}
