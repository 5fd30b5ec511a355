package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reminderdto "journel/internal/modules/reminder/dto"
	sessiondto "journel/internal/modules/session/dto"
	apperrors "journel/internal/platform/errors"
	"journel/internal/platform/timeutil"
	"journel/internal/ui/theme"
)

// sessionPort is the slice of the session usecase this view needs.
type sessionPort interface {
	Current(ctx context.Context) (sessiondto.CurrentOutput, error)
}

type tickMsg time.Time

type sessionMsg struct {
	out sessiondto.CurrentOutput
	err error
}

type recordChangedMsg struct{}

type reminderMsg reminderdto.Event

// Model renders the live session view. The active record on disk is the
// single source of truth: every tick and every external file change re-reads
// it, so a stop or pause issued from another terminal shows up here within
// a second.
type Model struct {
	sessions  sessionPort
	changes   <-chan struct{}
	reminders <-chan reminderdto.Event

	current    sessiondto.CurrentOutput
	hasSession bool
	loadErr    error
	alert      string
	alertAt    time.Time
	width      int
	height     int
}

func New(sessions sessionPort, changes <-chan struct{}, reminders <-chan reminderdto.Event) Model {
	return Model{sessions: sessions, changes: changes, reminders: reminders}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tickCmd(), m.waitChangeCmd(), m.waitReminderCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		return m, tea.Batch(m.loadCmd(), tickCmd())

	case recordChangedMsg:
		return m, tea.Batch(m.loadCmd(), m.waitChangeCmd())

	case reminderMsg:
		m.alert = fmt.Sprintf("%s on %s (%s of continuous work)",
			timeutil.Format(msg.Threshold), msg.Subject, timeutil.Format(msg.Elapsed))
		m.alertAt = time.Now()
		return m, m.waitReminderCmd()

	case sessionMsg:
		switch {
		case msg.err == nil:
			m.hasSession = true
			m.current = msg.out
			m.loadErr = nil
		case errors.Is(msg.err, apperrors.ErrNoActiveSession):
			m.hasSession = false
			m.loadErr = nil
		default:
			m.loadErr = msg.err
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("journel") + "\n\n")

	switch {
	case m.loadErr != nil:
		b.WriteString(theme.Alert.Render("cannot read session record") + "\n")
		b.WriteString(theme.Muted.Render(m.loadErr.Error()) + "\n")
	case !m.hasSession:
		b.WriteString(theme.Muted.Render("no active session") + "\n\n")
		b.WriteString(theme.Muted.Render("start one with: jnl start <project>") + "\n")
	default:
		s := m.current.Session
		badge := theme.Active.Render("● active")
		if s.State == "paused" {
			badge = theme.Paused.Render("● paused")
		}
		b.WriteString(badge + "  " + theme.Accent.Render(s.SubjectName))
		if s.Label != "" {
			b.WriteString(theme.Muted.Render("  " + s.Label))
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "  worked   %s\n", theme.Title.Render(timeutil.Format(s.Elapsed)))
		if s.Paused > 0 {
			fmt.Fprintf(&b, "  paused   %s\n", theme.Muted.Render(timeutil.Format(s.Paused)))
		}
		fmt.Fprintf(&b, "  started  %s\n", theme.Muted.Render(s.StartedAt.Local().Format("15:04")))
	}

	// Reminders stay on screen for a minute, long enough to notice, short
	// enough not to describe stale state after a pause.
	if m.alert != "" && time.Since(m.alertAt) < time.Minute {
		b.WriteString("\n" + theme.Alert.Render("⏰ "+m.alert) + "\n")
	}

	pane := theme.Pane.Render(b.String())
	footer := theme.Muted.Render("q:quit")
	content := lipgloss.JoinVertical(lipgloss.Left, pane, footer)
	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.sessions.Current(context.Background())
		return sessionMsg{out: out, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitChangeCmd() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return recordChangedMsg{}
	}
}

func (m Model) waitReminderCmd() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.reminders
		if !ok {
			return nil
		}
		return reminderMsg(ev)
	}
}
