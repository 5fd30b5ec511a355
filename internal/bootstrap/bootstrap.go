package bootstrap

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	reminderin "journel/internal/modules/reminder/port/in"
	reminderusecase "journel/internal/modules/reminder/usecase"
	sessioninadapter "journel/internal/modules/session/adapter/in"
	sessionoutadapter "journel/internal/modules/session/adapter/out"
	sessionin "journel/internal/modules/session/port/in"
	sessionservice "journel/internal/modules/session/service"
	sessionusecase "journel/internal/modules/session/usecase"
	"journel/internal/platform/clock"
	"journel/internal/platform/config"
	"journel/internal/platform/id"
	"journel/internal/ui/watch"
)

// reminderPollInterval is how often the watch process samples the active
// session for crossed thresholds. Sub-second precision buys nothing for
// thresholds measured in minutes.
const reminderPollInterval = 15 * time.Second

type App struct {
	Cfg        config.Config
	SessionCLI sessioninadapter.CLIHandler
	Sessions   sessionin.Usecase
	Reminders  reminderin.Usecase
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	projector, err := sessionoutadapter.NewSQLiteSessionProjector(cfg.IndexDBPath())
	if err != nil {
		return nil, fmt.Errorf("new session projector: %w", err)
	}

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids),
		sessionoutadapter.NewFileActiveSessionStore(cfg.ActiveSessionPath()),
		sessionoutadapter.NewFileActiveBreakStore(cfg.ActiveBreakPath()),
		sessionoutadapter.NewMonthlyHistoryStore(cfg.LogsDir()),
		projector,
		sessionoutadapter.NewFileProjectResolver(cfg.ProjectsDir()),
		time.Duration(cfg.OrphanThreshold),
	)

	return &App{
		Cfg:        cfg,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		Sessions:   sessionUC,
		Reminders:  reminderusecase.NewPoller(sessionUC, cfg.Thresholds(), reminderPollInterval),
	}, nil
}

// RunWatch hosts the long-lived companion process: the live terminal view
// plus the two background loops that only make sense while a process stays
// up, the reminder poller and the periodic checkpointer.
func RunWatch(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := watch.Subscribe(ctx, app.Cfg.ActiveSessionPath())
	if err != nil {
		return fmt.Errorf("watch session record: %w", err)
	}

	go func() {
		if err := app.Reminders.Run(ctx); err != nil {
			log.Warn().Err(err).Msg("reminder poller stopped")
		}
	}()
	go func() {
		if err := app.Sessions.RunCheckpoints(ctx, time.Duration(app.Cfg.CheckpointInterval)); err != nil {
			log.Warn().Err(err).Msg("checkpoint loop stopped")
		}
	}()

	program := tea.NewProgram(
		watch.New(app.SessionCLI, changes, app.Reminders.Events()),
		tea.WithAltScreen(),
	)
	_, err = program.Run()
	return err
}
