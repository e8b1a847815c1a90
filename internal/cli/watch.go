package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/socdash/internal/dashboard"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"dash", "monitor"},
	Short:   "Open the live dashboard",
	Long: `Open the full-screen SOC dashboard.

Stats, logs, alerts and chart data are polled on independent timers. Press ?
inside the dashboard for key bindings.

Examples:
  socdash watch
  socdash watch --url http://soc.internal:5000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context(), "")
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart <name>",
	Short: "Show a single chart full screen",
	Long: `Show one chart full screen. Only that chart is kept up to date.

Charts: timeline, distribution, performance, geographic, traffic, score

Examples:
  socdash chart traffic
  socdash chart geographic`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: chartNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ParseChart(args[0])
		if err != nil {
			return err
		}
		return dashboardCommand(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(chartCmd)
}

func chartNames() []string {
	names := make([]string, len(dashboard.AllCharts))
	for i, c := range dashboard.AllCharts {
		names[i] = string(c)
	}
	return names
}

// requireTerminal fails when stdout isn't a TTY.
func requireTerminal() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'socdash snapshot' for scripts and pipes.")
	}
	return nil
}

// progressOut is where spinners draw: stderr when it's a terminal, nowhere
// otherwise.
func progressOut() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return os.Stderr
	}
	return nil
}

// applyColorMode maps ui.color onto the lipgloss profile. --no-color wins.
func applyColorMode(mode string) {
	switch {
	case noColor || mode == "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case mode == "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// dashboardCommand runs the TUI. single, when set, limits it to one chart.
func dashboardCommand(parent context.Context, single dashboard.ChartID) error {
	if err := requireTerminal(); err != nil {
		return err
	}

	s, err := openSession(sessionOptions{tui: true})
	if err != nil {
		return err
	}
	defer s.Close()
	cfg := s.cfg
	applyColorMode(cfg.UI.Color)

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var mounted []dashboard.ChartID
	if single != "" {
		mounted = []dashboard.ChartID{single}
	}

	store := dashboard.NewStore(s.metrics)
	charts := dashboard.NewCharts(dashboard.ChartOptions{
		TimelineWindow: cfg.Charts.TimelineWindow,
		TrafficWindow:  cfg.Charts.TrafficWindow,
		Mounted:        mounted,
	})
	queue := dashboard.NewQueue(cfg.Notifications.TTL, cfg.Notifications.Max, s.metrics)
	defer queue.Close()

	// The poller and the queue both talk to the program, which doesn't exist
	// until the model is built. Neither sends before Run.
	var program *tea.Program
	send := func(msg tea.Msg) { program.Send(msg) }

	poller := dashboard.NewPoller(s.client, dashboard.ProgramSink(send),
		dashboard.ScheduleFromConfig(cfg.Poll),
		dashboard.WithLogger(s.log),
		dashboard.WithMetrics(s.metrics))
	dispatcher := dashboard.NewDispatcher(s.client, poller, queue, dispatcherConfig(cfg.Actions), s.log, s.metrics)
	defer dispatcher.Close()

	model := dashboard.NewModel(ctx, dashboard.Deps{
		Store:      store,
		Charts:     charts,
		Board:      dashboard.NewBoard(cfg.UI.Pulse, cfg.UI.CardReset),
		Queue:      queue,
		Dispatcher: dispatcher,
		Refresher:  poller,
		ChartTick:  cfg.Poll.Charts,
		Jitter:     cfg.Charts.Jitter,
		Single:     single,
		Backend:    s.client.BaseURL(),
	})

	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	queue.SetOnChange(func() { send(dashboard.ToastMsg{}) })

	s.log.Info("dashboard starting against %s", s.client.BaseURL())
	poller.Start(ctx)
	_, err = program.Run()
	cancel()
	poller.Stop()
	s.log.Info("dashboard stopped")

	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "Dashboard exited with an error")
	}
	return nil
}
