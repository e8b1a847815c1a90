package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/socdash/internal/soc"
)

// Focus is the panel that receives navigation keys.
type Focus int

const (
	FocusAlerts Focus = iota
	FocusLogs
)

// String returns a human-readable label for the focus.
func (f Focus) String() string {
	if f == FocusLogs {
		return "logs"
	}
	return "alerts"
}

// Next cycles to the other panel.
func (f Focus) Next() Focus {
	return Focus((int(f) + 1) % 2)
}

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyFocus      = "tab"
	KeyPrev       = "up"
	KeyPrevK      = "k"
	KeyNext       = "down"
	KeyNextJ      = "j"
	KeyLeft       = "left"
	KeyLeftH      = "h"
	KeyRight      = "right"
	KeyRightL     = "l"
	KeyExecute    = "enter"
	KeyCycleChart = "c"
	KeyDismiss    = "esc"
	KeyToggleHelp = "?"
)

// scenarioKeys maps the digit keys to scenarios in catalog order.
var scenarioKeys = func() map[string]string {
	out := make(map[string]string)
	for i, key := range soc.ScenarioKeys() {
		out[string(rune('1'+i))] = key
	}
	return out
}()

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyDismiss {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		if m.refresher != nil {
			m.refresher.Refresh(AllTasks...)
		}
		return true, nil

	case KeyDismiss:
		m.queue.Clear()
		return true, nil

	case KeyCycleChart:
		m.cycleChart()
		return true, nil
	}

	if m.single != "" {
		return false, nil
	}

	if scenario, ok := scenarioKeys[key]; ok {
		return true, m.simulateCmd(scenario)
	}

	switch key {
	case KeyFocus:
		m.focus = m.focus.Next()
		return true, nil

	case KeyPrev, KeyPrevK:
		if m.focus == FocusLogs {
			m.logView.ScrollUp(1)
			return true, nil
		}
		if m.selAlert > 0 {
			m.selAlert--
			m.selAct = 0
		}
		return true, nil

	case KeyNext, KeyNextJ:
		if m.focus == FocusLogs {
			m.logView.ScrollDown(1)
			return true, nil
		}
		if m.selAlert < len(m.alertCards().Cards)-1 {
			m.selAlert++
			m.selAct = 0
		}
		return true, nil

	case KeyLeft, KeyLeftH:
		if m.selAct > 0 {
			m.selAct--
		}
		return true, nil

	case KeyRight, KeyRightL:
		if card, ok := m.SelectedAlert(); ok && m.selAct < len(card.Actions)-1 {
			m.selAct++
		}
		return true, nil

	case KeyExecute:
		card, ok := m.SelectedAlert()
		if !ok || m.selAct >= len(card.Actions) {
			return true, nil
		}
		return true, m.dispatchCmd(card.Actions[m.selAct], card.ID)
	}

	return false, nil
}

// cycleChart steps the enlarged chart through the mounted charts. In the
// grid view the cycle ends back at the grid.
func (m *Model) cycleChart() {
	ids := m.charts.MountedIDs()
	if len(ids) == 0 {
		return
	}
	if m.single != "" {
		m.chartIdx = 0
		return
	}
	m.chartIdx = (m.chartIdx + 1) % (len(ids) + 1)
}

// DetailChart returns the chart shown enlarged, if any.
func (m Model) DetailChart() (ChartID, bool) {
	if m.single != "" {
		return m.single, true
	}
	ids := m.charts.MountedIDs()
	if m.chartIdx == 0 || m.chartIdx > len(ids) {
		return "", false
	}
	return ids[m.chartIdx-1], true
}
