package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding is one row of the help overlay.
type HelpBinding struct {
	Group string
	Key   string
	Desc  string
}

var helpBindings = []HelpBinding{
	{"Navigate", "tab", "Switch focus (alerts / logs)"},
	{"Navigate", "up / k", "Previous alert / scroll logs up"},
	{"Navigate", "down / j", "Next alert / scroll logs down"},
	{"Navigate", "c", "Enlarge next chart"},
	{"Respond", "left / h", "Previous action"},
	{"Respond", "right / l", "Next action"},
	{"Respond", "Enter", "Run selected action"},
	{"Simulate", "1-4", "Simulate an attack"},
	{"General", "r", "Refresh everything now"},
	{"General", "Esc", "Dismiss notifications / close"},
	{"General", "?", "Toggle this help"},
	{"General", "q / Ctrl+C", "Quit"},
}

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpGroupStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	helpKeyStyle   = lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true).Width(14)
	helpDescStyle  = lipgloss.NewStyle().Foreground(ColorTextSecondary)
)

// renderHelpOverlay centers the shortcut list over the dashboard.
func (m Model) renderHelpOverlay(_ string) string {
	lines := []string{helpGroupStyle.Render("Keyboard Shortcuts")}

	group := ""
	for _, b := range helpBindings {
		if b.Group != group {
			group = b.Group
			lines = append(lines, "", LabelStyle.Render(strings.ToUpper(group)))
		}
		lines = append(lines, "  "+helpKeyStyle.Render(b.Key)+helpDescStyle.Render(b.Desc))
	}
	lines = append(lines, "", LabelStyle.Render("Press ? or Esc to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		helpBoxStyle.Render(strings.Join(lines, "\n")),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
