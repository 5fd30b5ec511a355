package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"journel/internal/bootstrap"
	"journel/internal/platform/config"
	apperrors "journel/internal/platform/errors"
	"journel/internal/platform/logging"
	"journel/internal/platform/timeutil"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, friendly(err))
		os.Exit(1)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".journel"
	}
	return filepath.Join(home, ".journel")
}

func newRootCmd() *cobra.Command {
	var dataDir string
	var verbose bool

	root := &cobra.Command{
		Use:           "jnl",
		Short:         "Work session journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.Setup(verbose)
		},
	}
	root.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir(), "journel data directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newInitCmd(&dataDir))
	root.AddCommand(newStartCmd(&dataDir))
	root.AddCommand(newStopCmd(&dataDir))
	root.AddCommand(newPauseCmd(&dataDir))
	root.AddCommand(newContinueCmd(&dataDir))
	root.AddCommand(newSwitchCmd(&dataDir))
	root.AddCommand(newCurrentCmd(&dataDir))
	root.AddCommand(newBreakCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newWatchCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// friendly rewrites the state-machine sentinels into messages that tell the
// user what to do next instead of naming internal conditions.
func friendly(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoActiveSession):
		return "no active session — start one with: jnl start <project>"
	case errors.Is(err, apperrors.ErrAlreadyActive):
		return "a session is already active — stop it first, or pass --force"
	case errors.Is(err, apperrors.ErrNotPaused):
		return "the session is not paused"
	case errors.Is(err, apperrors.ErrBreakActive):
		return "a break is already running — end it with: jnl break stop"
	case errors.Is(err, apperrors.ErrNoActiveBreak):
		return "no break is running"
	}
	return err.Error()
}

// reportRecovery surfaces what the startup scan repaired. Every command
// triggers the scan; only the printing lives here.
func reportRecovery(cmd *cobra.Command, app *bootstrap.App) error {
	out, err := app.SessionCLI.Recover(context.Background())
	if err != nil {
		return err
	}
	if out.CorruptCleared {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: the active session record was unreadable and has been cleared")
	}
	if out.Recovered != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "recovered interrupted session on %s (closed at last checkpoint, %s)\n",
			out.Recovered.SubjectName, out.Recovered.EndedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func newInitCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the journel data directory and default config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteDefault(*dataDir); err != nil {
				return err
			}
			cfg, err := config.Load(*dataDir)
			if err != nil {
				return err
			}
			for _, dir := range []string{cfg.LogsDir(), cfg.ProjectsDir()} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", *dataDir)
			return nil
		},
	}
}

func newStartCmd(dataDir *string) *cobra.Command {
	var force bool
	start := &cobra.Command{
		Use:   "start <project> [label]",
		Short: "Start a work session",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			label := ""
			if len(args) == 2 {
				label = args[1]
			}
			out, err := app.SessionCLI.Start(context.Background(), args[0], label, force)
			if err != nil {
				return err
			}
			if out.Stopped != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped %s (worked %s)\n",
					out.Stopped.SubjectName, timeutil.Format(out.Stopped.Elapsed))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s at %s\n",
				out.Session.SubjectName, out.Session.StartedAt.Local().Format("15:04"))
			return nil
		},
	}
	start.Flags().BoolVar(&force, "force", false, "stop any active session first")
	return start
}

func newStopCmd(dataDir *string) *cobra.Command {
	var summary string
	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			out, err := app.SessionCLI.Stop(context.Background(), summary)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped %s: worked %s",
				out.Session.SubjectName, timeutil.Format(out.Session.Elapsed))
			if out.Session.Paused > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), ", paused %s", timeutil.Format(out.Session.Paused))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nlogged to logs/%s.md\n", out.Session.StartedAt.Format("2006-01"))
			return nil
		},
	}
	stop.Flags().StringVarP(&summary, "message", "m", "", "what got done")
	return stop
}

func newPauseCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			out, err := app.SessionCLI.Pause(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused %s (worked %s so far)\n",
				out.Session.SubjectName, timeutil.Format(out.Session.Elapsed))
			return nil
		},
	}
}

func newContinueCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:     "continue",
		Aliases: []string{"resume"},
		Short:   "Resume the paused session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			out, err := app.SessionCLI.Resume(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "resumed %s (paused for %s)\n",
				out.Session.SubjectName, timeutil.Format(out.Session.Paused))
			return nil
		},
	}
}

func newSwitchCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <project> [label]",
		Short: "Stop the active session and start one on another project",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			label := ""
			if len(args) == 2 {
				label = args[1]
			}
			out, err := app.SessionCLI.Switch(context.Background(), args[0], label)
			if err != nil {
				return err
			}
			if out.Previous != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped %s (worked %s)\n",
					out.Previous.SubjectName, timeutil.Format(out.Previous.Elapsed))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s at %s\n",
				out.Session.SubjectName, out.Session.StartedAt.Local().Format("15:04"))
			return nil
		},
	}
}

func newCurrentCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			out, err := app.SessionCLI.Current(context.Background())
			if errors.Is(err, apperrors.ErrNoActiveSession) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active session")
				return nil
			}
			if err != nil {
				return err
			}
			s := out.Session
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s", s.State, s.SubjectName)
			if s.Label != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " (%s)", s.Label)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), ": worked %s", timeutil.Format(s.Elapsed))
			if s.Paused > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), ", paused %s", timeutil.Format(s.Paused))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), ", since %s\n", s.StartedAt.Local().Format("15:04"))

			// One-shot reminder check: no daemon required to learn you have
			// been at it too long.
			events, err := app.Reminders.CheckOnce(context.Background())
			if err == nil {
				for _, ev := range events {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "⏰ over %s of continuous work\n", timeutil.Format(ev.Threshold))
				}
			}
			return nil
		},
	}
}

func newBreakCmd(dataDir *string) *cobra.Command {
	breakCmd := &cobra.Command{Use: "break", Short: "Track breaks"}

	var kind string
	var planned time.Duration
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a break",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			out, err := app.SessionCLI.StartBreak(context.Background(), kind, planned)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "break started (%s)", out.Kind)
			if out.Planned > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), ", planned %s", timeutil.Format(out.Planned))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	start.Flags().StringVar(&kind, "kind", "break", "break kind (coffee, walk, lunch)")
	start.Flags().DurationVar(&planned, "planned", 0, "planned length, e.g. 15m")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "End the running break",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			out, err := app.SessionCLI.EndBreak(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "break over: %s", timeutil.Format(out.Actual))
			if out.Planned > 0 && out.Actual > out.Planned {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " (planned %s)", timeutil.Format(out.Planned))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	breakCmd.AddCommand(start, stop)
	return breakCmd
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	var monthFlag string
	history := &cobra.Command{
		Use:   "history",
		Short: "Show the month's activity log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			month := time.Now()
			if strings.TrimSpace(monthFlag) != "" {
				month, err = time.Parse("2006-01", monthFlag)
				if err != nil {
					return fmt.Errorf("--month must look like 2026-08: %w", err)
				}
			}
			out, err := app.SessionCLI.History(context.Background(), month)
			if err != nil {
				return err
			}
			if strings.TrimSpace(out.Rendered) == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no activity logged for %s\n", out.Month)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Rendered)
			if out.Sessions > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d sessions, worked %s, paused %s\n",
					out.Sessions, timeutil.Format(out.Worked), timeutil.Format(out.Paused))
			}
			return nil
		},
	}
	history.Flags().StringVar(&monthFlag, "month", "", "month to show (YYYY-MM, default current)")
	return history
}

func newWatchCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live session view with reminders and periodic checkpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := reportRecovery(cmd, app); err != nil {
				return err
			}
			return bootstrap.RunWatch(context.Background(), app)
		},
	}
}
