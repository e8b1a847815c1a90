package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/socdash/internal/soc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func withAlerts(t *testing.T, m Model, alerts ...soc.Alert) Model {
	t.Helper()
	m, _ = update(t, m, UpdateMsg{Task: TaskAlerts, Seq: m.store.AppliedSeq(TaskAlerts) + 1, Alerts: alerts})
	return m
}

func TestFocus(t *testing.T) {
	assert.Equal(t, "alerts", FocusAlerts.String())
	assert.Equal(t, "logs", FocusLogs.String())
	assert.Equal(t, FocusLogs, FocusAlerts.Next())
	assert.Equal(t, FocusAlerts, FocusLogs.Next())
}

func TestScenarioKeys(t *testing.T) {
	assert.Equal(t, map[string]string{
		"1": "brute-force",
		"2": "insider-threat",
		"3": "data-exfiltration",
		"4": "malware",
	}, scenarioKeys)
}

func TestHandleKeyMsg_Quit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		m, _ := newTestModel(t, "")
		handled, cmd := m.HandleKeyMsg(keyMsg(key))
		assert.True(t, handled)
		assert.NotNil(t, cmd)
		assert.True(t, m.quitting)
	}
}

func TestHandleKeyMsg_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, "")

	m.HandleKeyMsg(keyMsg("?"))
	assert.True(t, m.showHelp)

	m.HandleKeyMsg(keyMsg("esc"))
	assert.False(t, m.showHelp)
}

func TestHandleKeyMsg_RefreshAll(t *testing.T) {
	m, deps := newTestModel(t, "")
	handled, _ := m.HandleKeyMsg(keyMsg("r"))
	assert.True(t, handled)
	assert.Equal(t, [][]Task{AllTasks}, deps.refresh.Calls())
}

func TestHandleKeyMsg_EscClearsToasts(t *testing.T) {
	m, deps := newTestModel(t, "")
	deps.queue.Push("x", KindSuccess)

	m.HandleKeyMsg(keyMsg("esc"))
	assert.Empty(t, deps.queue.Active())
}

func TestHandleKeyMsg_AlertNavigation(t *testing.T) {
	m, _ := newTestModel(t, "")
	m = withAlerts(t, m,
		soc.Alert{ID: 10, ThreatType: "Brute Force Attack", Severity: soc.SeverityHigh},
		soc.Alert{ID: 11, ThreatType: "Malware Indicators", Severity: soc.SeverityHigh},
	)

	m.HandleKeyMsg(keyMsg("l"))
	m.HandleKeyMsg(keyMsg("l"))
	m.HandleKeyMsg(keyMsg("l"))
	assert.Equal(t, 2, m.selAct, "action cursor stops at the last button")

	m.HandleKeyMsg(keyMsg("h"))
	assert.Equal(t, 1, m.selAct)

	m.HandleKeyMsg(keyMsg("j"))
	assert.Equal(t, 1, m.selAlert)
	assert.Equal(t, 0, m.selAct, "moving to another alert resets the action")

	m.HandleKeyMsg(keyMsg("j"))
	assert.Equal(t, 1, m.selAlert)

	m.HandleKeyMsg(keyMsg("k"))
	assert.Equal(t, 0, m.selAlert)
}

func TestHandleKeyMsg_TabSwitchesFocus(t *testing.T) {
	m, _ := newTestModel(t, "")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})
	m = withAlerts(t, m, soc.Alert{ID: 1}, soc.Alert{ID: 2})

	m.HandleKeyMsg(keyMsg("tab"))
	assert.Equal(t, FocusLogs, m.focus)

	m.HandleKeyMsg(keyMsg("j"))
	assert.Equal(t, 0, m.selAlert, "j scrolls logs while they have focus")
}

func TestHandleKeyMsg_EnterDispatchesSelectedAction(t *testing.T) {
	m, deps := newTestModel(t, "")
	m = withAlerts(t, m, soc.Alert{ID: 42, ThreatType: "Malware Indicators", Severity: soc.SeverityHigh})
	m.HandleKeyMsg(keyMsg("l"))

	handled, cmd := m.HandleKeyMsg(keyMsg("enter"))
	require.True(t, handled)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)

	want := soc.RecommendedActions("Malware Indicators")[1]
	assert.Equal(t, []soc.ActionRequest{{Action: want, AlertID: 42}}, deps.client.actions)
	assert.Len(t, deps.queue.Active(), 1)
}

func TestHandleKeyMsg_EnterWithoutAlertsIsNoop(t *testing.T) {
	m, deps := newTestModel(t, "")
	handled, cmd := m.HandleKeyMsg(keyMsg("enter"))
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Empty(t, deps.client.actions)
}

func TestHandleKeyMsg_Simulate(t *testing.T) {
	m, _ := newTestModel(t, "")

	handled, cmd := m.HandleKeyMsg(keyMsg("4"))
	assert.True(t, handled)
	assert.NotNil(t, cmd)

	for _, c := range m.board.Cards() {
		if c.Scenario.Key == "malware" {
			assert.True(t, c.Detected())
			assert.Equal(t, 1, c.Count)
			assert.Equal(t, CardDetected, c.Status)
		}
	}
}

func TestHandleKeyMsg_CycleChart(t *testing.T) {
	m, _ := newTestModel(t, "")
	_, ok := m.DetailChart()
	assert.False(t, ok)

	m.HandleKeyMsg(keyMsg("c"))
	id, ok := m.DetailChart()
	require.True(t, ok)
	assert.Equal(t, ChartTimeline, id)

	for range AllCharts {
		m.HandleKeyMsg(keyMsg("c"))
	}
	_, ok = m.DetailChart()
	assert.False(t, ok, "cycle ends back on the grid")
}

func TestHandleKeyMsg_SingleChartIgnoresAlertKeys(t *testing.T) {
	m, _ := newTestModel(t, ChartTraffic)

	handled, _ := m.HandleKeyMsg(keyMsg("1"))
	assert.False(t, handled)

	id, ok := m.DetailChart()
	require.True(t, ok)
	assert.Equal(t, ChartTraffic, id)

	m.HandleKeyMsg(keyMsg("c"))
	id, _ = m.DetailChart()
	assert.Equal(t, ChartTraffic, id)
}

func TestHandleKeyMsg_Unhandled(t *testing.T) {
	m, _ := newTestModel(t, "")
	handled, cmd := m.HandleKeyMsg(keyMsg("z"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}
