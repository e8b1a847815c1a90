package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: single column, no chart grid
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: single column with charts
	LayoutCompact
	// LayoutStandard is for terminals 120-160 columns: alerts and logs side by side
	LayoutStandard
	// LayoutWide is for terminals 160+ columns: three chart columns
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
	BreakpointWide     = 160
)

// Height breakpoint below which the footer is hidden.
const HeightMinimal = 24

// clockInterval drives the header clock.
const clockInterval = time.Second

// Deps is everything the TUI model drives. Store, Charts, Board, Queue and
// Dispatcher are required; Refresher may be nil in tests.
type Deps struct {
	Store      *Store
	Charts     *Charts
	Board      *Board
	Queue      *Queue
	Dispatcher *Dispatcher
	Refresher  Refresher

	// ChartTick is how often the local chart animation advances.
	ChartTick time.Duration
	// Jitter is the performance chart drift per tick.
	Jitter float64
	// Single shows only this chart, full screen.
	Single ChartID
	// Backend is shown in the header.
	Backend string
}

// Model is the Bubble Tea model for the SOC dashboard.
type Model struct {
	ctx        context.Context
	store      *Store
	charts     *Charts
	board      *Board
	queue      *Queue
	dispatcher *Dispatcher
	refresher  Refresher

	chartTick time.Duration
	jitter    float64
	single    ChartID
	backend   string

	width    int
	height   int
	now      time.Time
	focus    Focus
	selAlert int
	selAct   int
	chartIdx int
	showHelp bool
	quitting bool

	lastUpdate time.Time

	logView       viewport.Model
	viewportReady bool
}

// UpdateMsg carries one poll result into the event loop.
type UpdateMsg Update

// ToastMsg asks for a redraw because the toast stack changed.
type ToastMsg struct{}

// clockMsg advances the header clock.
type clockMsg time.Time

// chartTickMsg advances the local chart animation.
type chartTickMsg time.Time

// animMsg delivers a scheduled animation step.
type animMsg Scheduled

// actionDoneMsg reports a finished response action.
type actionDoneMsg struct {
	action string
	err    error
}

// simulateDoneMsg reports a finished simulation.
type simulateDoneMsg struct {
	scenario string
	err      error
}

// ProgramSink forwards poll results into a running Bubble Tea program.
func ProgramSink(send func(tea.Msg)) Sink {
	return SinkFunc(func(u Update) { send(UpdateMsg(u)) })
}

// NewModel creates the dashboard model. ctx bounds the requests the model
// starts for actions and simulations.
func NewModel(ctx context.Context, d Deps) Model {
	if d.ChartTick <= 0 {
		d.ChartTick = 4 * time.Second
	}
	return Model{
		ctx:        ctx,
		store:      d.Store,
		charts:     d.Charts,
		board:      d.Board,
		queue:      d.Queue,
		dispatcher: d.Dispatcher,
		refresher:  d.Refresher,
		chartTick:  d.ChartTick,
		jitter:     d.Jitter,
		single:     d.Single,
		backend:    d.Backend,
		now:        time.Now(),
		focus:      FocusAlerts,
	}
}

// Init starts the clock and chart timers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.clockCmd(), m.chartTickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogView()

	case UpdateMsg:
		return m, m.applyUpdate(Update(msg))

	case clockMsg:
		m.now = time.Time(msg)
		return m, m.clockCmd()

	case chartTickMsg:
		m.charts.Advance(time.Time(msg).Format("15:04:05"), m.jitter)
		return m, m.chartTickCmd()

	case animMsg:
		next, ok := m.board.Step(msg.Key, msg.Gen)
		if ok {
			return m, animCmd(next)
		}

	case simulateDoneMsg:
		if msg.err == nil {
			m.board.Processed(msg.scenario)
		}

	case actionDoneMsg, ToastMsg:
		// Redraw only; toasts and refreshes are already queued.
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	base := m.renderDashboard()
	if m.showHelp {
		return m.renderHelpOverlay(base)
	}
	return base
}

// applyUpdate runs a poll result through the store and, if it was
// accepted, into the widgets that show it.
func (m *Model) applyUpdate(u Update) tea.Cmd {
	if m.store.Apply(u) != Applied {
		return nil
	}
	if !u.At.IsZero() {
		m.lastUpdate = u.At
	}

	switch u.Task {
	case TaskStats:
		var cmds []tea.Cmd
		for _, s := range m.board.ApplyStats(u.Stats) {
			cmds = append(cmds, animCmd(s))
		}
		return tea.Batch(cmds...)
	case TaskLogs:
		m.refreshLogView()
	case TaskAlerts:
		m.clampSelection()
	case TaskCharts:
		m.charts.ApplyData(u.Charts)
	}
	return nil
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m Model) chartTickCmd() tea.Cmd {
	return tea.Tick(m.chartTick, func(t time.Time) tea.Msg {
		return chartTickMsg(t)
	})
}

func animCmd(s Scheduled) tea.Cmd {
	return tea.Tick(s.After, func(time.Time) tea.Msg {
		return animMsg(s)
	})
}

// dispatchCmd runs the selected action off the event loop.
func (m Model) dispatchCmd(action string, alertID int64) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: d.Dispatch(ctx, action, alertID)}
	}
}

// simulateCmd starts a scenario off the event loop and lights its card.
func (m *Model) simulateCmd(scenario string) tea.Cmd {
	s, ok := m.board.Detect(scenario)
	if !ok {
		return nil
	}
	d, ctx := m.dispatcher, m.ctx
	return tea.Batch(animCmd(s), func() tea.Msg {
		return simulateDoneMsg{scenario: scenario, err: d.Simulate(ctx, scenario)}
	})
}

// alertCards renders the current alerts.
func (m Model) alertCards() AlertList {
	alerts, _ := m.store.Alerts()
	return AlertCards(alerts)
}

// SelectedAlert returns the selected alert card.
func (m Model) SelectedAlert() (AlertCard, bool) {
	list := m.alertCards()
	if list.AllClear || m.selAlert < 0 || m.selAlert >= len(list.Cards) {
		return AlertCard{}, false
	}
	return list.Cards[m.selAlert], true
}

// clampSelection keeps the alert and action cursors inside the current list.
func (m *Model) clampSelection() {
	list := m.alertCards()
	if m.selAlert >= len(list.Cards) {
		m.selAlert = len(list.Cards) - 1
	}
	if m.selAlert < 0 {
		m.selAlert = 0
	}
	if card, ok := m.SelectedAlert(); ok {
		if m.selAct >= len(card.Actions) {
			m.selAct = len(card.Actions) - 1
		}
	}
	if m.selAct < 0 {
		m.selAct = 0
	}
}

func (m *Model) resizeLogView() {
	height := m.logHeight()
	width := m.logWidth() - 4
	if width < 10 {
		width = 10
	}
	if !m.viewportReady {
		m.logView = viewport.New(width, height)
		m.viewportReady = true
	} else {
		m.logView.Width = width
		m.logView.Height = height
	}
	m.refreshLogView()
}

func (m *Model) refreshLogView() {
	if !m.viewportReady {
		return
	}
	m.logView.SetContent(renderLogLines(LogLines(m.store.Logs()), m.logView.Width))
}

func (m Model) logHeight() int {
	h := 12
	if m.height > 0 && m.height < HeightMinimal {
		h = 6
	}
	return h
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard:
		return LayoutStandard
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutMinimal
	}
}

// ShowFooter returns true if the terminal is tall enough to show the footer.
func (m Model) ShowFooter() bool {
	return m.height == 0 || m.height >= HeightMinimal
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// accepted poll result.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	secs := int(m.now.Sub(m.lastUpdate).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
