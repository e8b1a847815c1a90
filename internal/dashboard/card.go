package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Card layout constants
const (
	statCardWidth   = 20
	threatCardWidth = 26
	minAlertWidth   = 40
)

var cardDividerStyle = lipgloss.NewStyle().Foreground(ColorBorder)

// renderCardDivider creates a subtle thin divider line
func renderCardDivider(width int) string {
	if width < 1 {
		return ""
	}
	return cardDividerStyle.Render(strings.Repeat("─", width))
}

// truncate shortens s to width display cells, ANSI-aware, with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// wrapWords greedily wraps plain text to width cells.
func wrapWords(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case lipgloss.Width(current)+1+lipgloss.Width(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// renderStatCard renders one stat counter. The value style follows the
// field's pulse phase.
func (m Model) renderStatCard(f StatField) string {
	valueStyle := ValueStyle
	switch m.board.Pulse(f) {
	case PhaseActive:
		valueStyle = ValuePulseStyle
	case PhaseSettling:
		valueStyle = ValueSettleStyle
	}

	value := m.board.Value(f)
	if f == StatSystemStatus {
		valueStyle = StatusOnlineStyle
		if m.store.Degraded() {
			valueStyle = StatusDegradedStyle
		}
	}

	body := LabelStyle.Render(f.Label()) + "\n" + valueStyle.Render(value)
	return CardStyle.Width(statCardWidth).Render(body)
}

// renderThreatCard renders one simulate button with its tally.
func (m Model) renderThreatCard(idx int, c ThreatCard) string {
	style := CardStyle
	statusStyle := lipgloss.NewStyle().Foreground(ColorAccent)
	if c.Detected() {
		style = CardDetectedStyle
		statusStyle = lipgloss.NewStyle().Foreground(ColorCritical)
	}

	title := fmt.Sprintf("%d %s", idx+1, c.Scenario.Short)
	lines := []string{
		TitleStyle.Render(title) + "  " + ValueStyle.Render(fmt.Sprintf("%d", c.Count)),
		truncate(statusStyle.Render(c.Status), threatCardWidth-4),
	}
	return style.Width(threatCardWidth).Render(strings.Join(lines, "\n"))
}

// renderAlertCard renders one alert with its action buttons. sel is the
// selected action index, or -1 when the card is not selected.
func renderAlertCard(card AlertCard, width, sel int) string {
	if width < minAlertWidth {
		width = minAlertWidth
	}
	inner := width - 4

	style := CardStyle
	if sel >= 0 {
		style = CardSelectedStyle
	}

	var lines []string
	lines = append(lines, truncate(TitleStyle.Render(card.Title), inner))
	lines = append(lines, BadgeStyle(card.Badge).Render(card.Badge.Label))
	lines = append(lines, renderCardDivider(inner))
	for _, l := range wrapWords(card.Description, inner) {
		lines = append(lines, LabelStyle.Render(l))
	}
	lines = append(lines, MutedStyle.Render("🕰️ Detected: "+card.Detected))
	for _, l := range wrapWords("📊 Impact: "+card.Impact, inner) {
		lines = append(lines, MutedStyle.Render(l))
	}
	lines = append(lines, renderCardDivider(inner))

	for i, action := range card.Actions {
		s := ActionStyle
		if i == sel {
			s = ActionSelectedStyle
		}
		lines = append(lines, s.Render(truncate("⚙️ "+action, inner-2)))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// renderAllClear renders the empty alert panel.
func renderAllClear(width int) string {
	body := AllClearStyle.Render(AllClearTitle) + "\n" + LabelStyle.Render(AllClearBody)
	return CardStyle.Width(width).Render(body)
}
