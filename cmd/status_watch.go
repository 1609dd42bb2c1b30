package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/adapters/render/timerview"
	"github.com/trak-cli/trak/internal/application"
	"github.com/trak-cli/trak/internal/domain"
)

type watchTickMsg time.Time

// statusWatchModel re-renders the elapsed readout from a fresh service
// snapshot whenever the display ticker fires. The ticking is display only;
// no timer state is written.
type statusWatchModel struct {
	snapshot     func() application.TimerStatus
	status       application.TimerStatus
	stateStyle   lipgloss.Style
	pausedStyle  lipgloss.Style
	elapsedStyle lipgloss.Style
	hintStyle    lipgloss.Style
}

func newStatusWatchModel(snapshot func() application.TimerStatus) statusWatchModel {
	return statusWatchModel{
		snapshot:     snapshot,
		status:       snapshot(),
		stateStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		pausedStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		elapsedStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		hintStyle:    lipgloss.NewStyle().Faint(true),
	}
}

func (m statusWatchModel) Init() tea.Cmd {
	return nil
}

func (m statusWatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		m.status = m.snapshot()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m statusWatchModel) View() string {
	switch m.status.State {
	case domain.TimerRunning:
		return fmt.Sprintf("%s %s %s  %s\n",
			m.stateStyle.Render("●"),
			m.elapsedStyle.Render(timerview.FormatElapsed(m.status.Elapsed)),
			m.status.Timer.Label(),
			m.hintStyle.Render("(q to quit)"))
	case domain.TimerPaused:
		return fmt.Sprintf("%s %s %s  %s\n",
			m.pausedStyle.Render("‖"),
			m.elapsedStyle.Render(timerview.FormatElapsed(m.status.Elapsed)),
			m.status.Timer.Label(),
			m.hintStyle.Render("(q to quit)"))
	default:
		return "No timer running.\n"
	}
}

// runStatusWatch drives the live view from the service's display ticker:
// ticks arrive only while a timer runs, so pause and stop silence the
// refreshes and the frozen elapsed readout stays accurate.
func runStatusWatch(cmd *cobra.Command, svc *application.TimerService) error {
	p := tea.NewProgram(
		newStatusWatchModel(svc.Snapshot),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithContext(cmd.Context()),
	)

	// Send blocks on the ticker goroutine until the program loop is up,
	// and the program context releases it on quit.
	svc.SetTickHandler(func(time.Duration) {
		p.Send(watchTickMsg(time.Now()))
	})
	defer svc.SetTickHandler(nil)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run status watch: %w", err)
	}

	return nil
}
