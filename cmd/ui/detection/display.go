package detection

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"testfold/pkg/detector"
)

var (
	titleStyle        = lipgloss.NewStyle().Background(lipgloss.Color("#01FAC6")).Foreground(lipgloss.Color("#030303")).Bold(true).Padding(0, 1, 0)
	focusedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
	descriptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	warnStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#01FAC6")).
			Padding(1, 2).
			Width(72)
)

// Render formats detection results as a bordered report.
func Render(r detector.DetectionResults) string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Detection Results"))
	s.WriteString("\n\n")

	var content strings.Builder
	for _, row := range []struct {
		label  string
		result detector.DetectionResult
	}{
		{"Framework", r.Framework},
		{"Language", r.Language},
		{"Test runner", r.TestRunner},
		{"Database", r.Database},
	} {
		writeResult(&content, row.label, row.result)
	}

	if r.PackageManager != "" {
		content.WriteString(focusedStyle.Render("Package manager: "))
		content.WriteString(selectedItemStyle.Render(r.PackageManager))
		content.WriteString("\n")
	}
	if r.TestCommand != "" {
		content.WriteString(focusedStyle.Render("Test command: "))
		content.WriteString(selectedItemStyle.Render(r.TestCommand))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(focusedStyle.Render("Test files: "))
	content.WriteString(descriptionStyle.Render(fmt.Sprintf("%d unit, %d integration, %d e2e (%d total)",
		r.TestCounts.Unit, r.TestCounts.Integration, r.TestCounts.E2E, r.TestCounts.Total)))
	content.WriteString("\n")
	content.WriteString(focusedStyle.Render("Dependencies: "))
	content.WriteString(descriptionStyle.Render(fmt.Sprintf("%d runtime, %d dev",
		len(r.Dependencies.Runtime), len(r.Dependencies.Dev))))

	s.WriteString(boxStyle.Render(content.String()))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("%s in %s", r.Path, r.Duration.Round(time.Millisecond))))
	s.WriteString("\n")
	return s.String()
}

func writeResult(b *strings.Builder, label string, r detector.DetectionResult) {
	b.WriteString(focusedStyle.Render(label + ": "))
	if r.Value == detector.Unknown {
		b.WriteString(warnStyle.Render(r.Value))
		b.WriteString("\n")
		return
	}

	b.WriteString(selectedItemStyle.Render(fmt.Sprintf("%s (%.0f%%)", r.Value, r.Confidence*100)))
	b.WriteString("\n")
	for _, ev := range r.Evidence {
		b.WriteString(successStyle.Render("  ✓ "))
		b.WriteString(descriptionStyle.Render(ev))
		b.WriteString("\n")
	}
	for _, alt := range r.Alternatives {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  also: %s (%.0f%%)", alt.Value, alt.Confidence*100)))
		b.WriteString("\n")
	}
}
