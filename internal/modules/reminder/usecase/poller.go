package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"journel/internal/modules/reminder/dto"
	reminderin "journel/internal/modules/reminder/port/in"
	"journel/internal/modules/reminder/service"
	sessionin "journel/internal/modules/session/port/in"
	apperrors "journel/internal/platform/errors"
)

// Poller periodically reads the current session and emits reminder events
// for an external presentation layer. It never mutates session state and
// performs no writes, so cancellation can never leave partial state.
type Poller struct {
	sessions   sessionin.Usecase
	tracker    *service.Tracker
	thresholds []time.Duration
	interval   time.Duration
	events     chan dto.Event
}

func NewPoller(sessions sessionin.Usecase, thresholds []time.Duration, interval time.Duration) reminderin.Usecase {
	return &Poller{
		sessions:   sessions,
		tracker:    service.NewTracker(thresholds),
		thresholds: thresholds,
		interval:   interval,
		events:     make(chan dto.Event, 16),
	}
}

func (p *Poller) Events() <-chan dto.Event {
	return p.events
}

func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	current, err := p.sessions.Current(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoActiveSession) {
			log.Warn().Err(err).Msg("reminder poll failed")
		}
		return
	}
	for _, th := range p.tracker.Observe(current.Session.SessionID, current.Session.Elapsed) {
		ev := dto.Event{
			SessionID: current.Session.SessionID,
			Subject:   current.Session.SubjectName,
			Threshold: th,
			Elapsed:   current.Session.Elapsed,
		}
		select {
		case p.events <- ev:
		default:
			log.Warn().Str("session", ev.SessionID).Dur("threshold", th).
				Msg("reminder consumer lagging, dropping event")
		}
	}
}

func (p *Poller) CheckOnce(ctx context.Context) ([]dto.Event, error) {
	current, err := p.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return nil, nil
		}
		return nil, err
	}
	var out []dto.Event
	for _, th := range service.Crossed(current.Session.Elapsed, p.thresholds) {
		out = append(out, dto.Event{
			SessionID: current.Session.SessionID,
			Subject:   current.Session.SubjectName,
			Threshold: th,
			Elapsed:   current.Session.Elapsed,
		})
	}
	return out, nil
}
