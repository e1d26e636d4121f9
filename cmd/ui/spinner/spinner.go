package spinner

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))

// doneMsg ends the spinner and leaves a finished line behind.
type doneMsg struct{}

type model struct {
	spinner  spinner.Model
	message  string
	quitting bool
	done     bool
}

// InitialModel returns a spinner model showing message next to the animation.
func InitialModel(message string) model {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6"))
	return model{
		spinner: s,
		message: message,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			return m, nil
		}

	case doneMsg:
		m.done = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m model) View() string {
	if m.done {
		return fmt.Sprintf("%s %s\n", doneStyle.Render("✓"), m.message)
	}
	str := fmt.Sprintf("%s %s", m.spinner.View(), m.message)
	if m.quitting {
		return str + "\n"
	}
	return str
}

// Start shows the spinner until the returned stop function is called.
// Stop blocks until the terminal is restored.
func Start(message string) (stop func()) {
	p := tea.NewProgram(InitialModel(message))
	done := make(chan struct{})

	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			fmt.Fprintf(os.Stderr, "Error running spinner: %v\n", err)
		}
	}()

	return func() {
		p.Send(doneMsg{})
		<-done
	}
}
