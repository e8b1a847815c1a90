package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rileyhilliard/socdash/internal/dashboard"
	"github.com/rileyhilliard/socdash/internal/soc"
	"github.com/rileyhilliard/socdash/internal/ui"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario>",
	Short: "Replay an attack scenario on the backend",
	Long: `Ask the backend to replay an attack scenario. It writes the scenario's
log lines and raises an alert, which the dashboard picks up on its next poll.

Scenarios: brute-force, insider-threat, data-exfiltration, malware

Examples:
  socdash simulate brute-force
  socdash simulate malware`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: scenarioNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := ParseScenario(args[0])
		if err != nil {
			return err
		}
		return simulateCommand(cmd.Context(), cmd.OutOrStdout(), sc.Key)
	},
}

var actionCmd = &cobra.Command{
	Use:   "action <name> <alert-id>",
	Short: "Run a response action against an alert",
	Long: `Run a response action against an alert. Blocking actions (block,
disable, isolate, lock) resolve the alert.

Examples:
  socdash action "Run Virus Scan" 12
  socdash action "Block Hacker's IP Address" 7`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ParseAlertID(args[1])
		if err != nil {
			return err
		}
		return actionCommand(cmd.Context(), cmd.OutOrStdout(), args[0], id)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(actionCmd)
}

// printNotifier collects dispatcher toasts and prints them once the
// request has settled, so they don't tear through the spinner line.
type printNotifier struct {
	w    io.Writer
	msgs []string
}

func (p *printNotifier) Push(message string, kind dashboard.Kind) string {
	p.msgs = append(p.msgs, message)
	return ""
}

func (p *printNotifier) flush() {
	for _, m := range p.msgs {
		fmt.Fprintln(p.w, m)
	}
	p.msgs = nil
}

func simulateCommand(ctx context.Context, w io.Writer, scenario string) error {
	return withDispatcher(ctx, w, "Simulating "+scenario, func(ctx context.Context, d *dashboard.Dispatcher) error {
		return d.Simulate(ctx, scenario)
	})
}

func actionCommand(ctx context.Context, w io.Writer, action string, alertID int64) error {
	label := fmt.Sprintf("Running %s on alert #%d", action, alertID)
	return withDispatcher(ctx, w, label, func(ctx context.Context, d *dashboard.Dispatcher) error {
		return d.Dispatch(ctx, action, alertID)
	})
}

// withDispatcher runs one dispatcher call behind a spinner. The dispatcher
// has no refresher since nothing is on screen to refresh.
func withDispatcher(ctx context.Context, w io.Writer, label string, fn func(context.Context, *dashboard.Dispatcher) error) error {
	s, err := openSession(sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()
	if ctx == nil {
		ctx = context.Background()
	}

	notify := &printNotifier{w: w}
	d := dashboard.NewDispatcher(s.client, nil, notify, dispatcherConfig(s.cfg.Actions), s.log, s.metrics)
	defer d.Close()

	err = ui.Run(progressOut(), label, func() error { return fn(ctx, d) })
	notify.flush()
	return err
}

func scenarioNames() []string {
	return soc.ScenarioKeys()
}
