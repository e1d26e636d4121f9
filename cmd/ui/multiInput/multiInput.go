package multiInput

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"testfold/cmd/steps"
)

var (
	focusedStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	titleStyle            = lipgloss.NewStyle().Background(lipgloss.Color("#01FAC6")).Foreground(lipgloss.Color("#030303")).Bold(true).Padding(0, 1, 0)
	selectedItemStyle     = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
	selectedItemDescStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170"))
	descriptionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
)

type model struct {
	cursor  int
	choices []steps.Item
	choice  string
	header  string
	exit    bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func initialModel(step steps.StepSchema) model {
	return model{
		choices: step.Options,
		header:  titleStyle.Render(step.Headers),
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.exit = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter", "y":
			m.choice = m.choices[m.cursor].Title
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	s := m.header + "\n\n"

	for i, choice := range m.choices {
		cursor := " "
		checked := " "
		title := focusedStyle.Render(choice.Title)
		description := descriptionStyle.Render(choice.Desc)
		if m.cursor == i {
			cursor = focusedStyle.Render(">")
			checked = focusedStyle.Render("X")
			title = selectedItemStyle.Render(choice.Title)
			description = selectedItemDescStyle.Render(choice.Desc)
		}

		s += fmt.Sprintf("%s [%s] %s\n%s\n\n", cursor, checked, title, description)
	}

	s += fmt.Sprintf("Press %s to confirm choice, %s to exit.\n\n",
		focusedStyle.Render("enter"), focusedStyle.Render("esc/q"))
	return s
}

// ShowMenu runs a single-choice menu for step and returns the chosen title.
func ShowMenu(step steps.StepSchema) (string, error) {
	p := tea.NewProgram(initialModel(step), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running menu: %w", err)
	}

	final := finalModel.(model)
	if final.exit && final.choice == "" {
		return "", fmt.Errorf("selection cancelled")
	}

	return final.choice, nil
}
