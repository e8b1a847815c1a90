package ui

import "github.com/charmbracelet/lipgloss"

// Status colors for one-shot command output. They match the dashboard's
// severity palette so a snapshot reads the same as the live view.
const (
	ColorSuccess lipgloss.Color = "#2ed573"
	ColorError   lipgloss.Color = "#ff4757"
	ColorWarning lipgloss.Color = "#ffa502"
	ColorMuted   lipgloss.Color = "#747d8c"
)

// spinnerColors cycles while a spinner runs.
var spinnerColors = []lipgloss.Color{"#ff6b9d", "#c56cf0", "#17c0eb", "#2ed573"}
