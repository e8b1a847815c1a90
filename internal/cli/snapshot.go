package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/socdash/internal/dashboard"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	snapshotFormat  string
	snapshotTimeout time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the dashboard state once and print it",
	Long: `Fetch stats, logs, alerts and chart data once and print them.

Unlike the dashboard this works without a terminal, so it suits scripts and
CI. Tasks that fail are reported under "errors"; the command only fails when
every task does.

Examples:
  socdash snapshot
  socdash snapshot --format json | jq '.data.alerts'
  socdash snapshot --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(snapshotFormat)
		if err != nil {
			return err
		}
		return snapshotCommand(cmd.Context(), cmd.OutOrStdout(), format)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "f", FormatText, "output format: text, json, yaml")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", 15*time.Second, "give up after this long")
}

// SnapshotReport is the printable view of one round of polling.
type SnapshotReport struct {
	Backend string         `json:"backend" yaml:"backend"`
	TakenAt time.Time      `json:"taken_at" yaml:"taken_at"`
	Stats   []StatRow      `json:"stats" yaml:"stats"`
	Alerts  []AlertRow     `json:"alerts" yaml:"alerts"`
	Logs    []LogRow       `json:"logs" yaml:"logs"`
	Charts  []ChartRow     `json:"charts" yaml:"charts"`
	Errors  []SnapshotFail `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// StatRow is one stat counter.
type StatRow struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// AlertRow is one active alert with its suggested responses.
type AlertRow struct {
	ID          int64    `json:"id" yaml:"id"`
	Threat      string   `json:"threat" yaml:"threat"`
	Severity    string   `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
	Detected    string   `json:"detected" yaml:"detected"`
	Actions     []string `json:"actions" yaml:"actions"`
}

// LogRow is one feed line.
type LogRow struct {
	Time    string `json:"time" yaml:"time"`
	Source  string `json:"source" yaml:"source"`
	Message string `json:"message" yaml:"message"`
}

// ChartRow is one chart's first dataset.
type ChartRow struct {
	Chart  string    `json:"chart" yaml:"chart"`
	Title  string    `json:"title" yaml:"title"`
	Labels []string  `json:"labels" yaml:"labels"`
	Values []float64 `json:"values" yaml:"values"`
}

// SnapshotFail records a task that could not be fetched.
type SnapshotFail struct {
	Task  string `json:"task" yaml:"task"`
	Error string `json:"error" yaml:"error"`
}

func snapshotCommand(parent context.Context, w io.Writer, format string) error {
	s, err := openSession(sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, snapshotTimeout)
	defer cancel()

	var progress io.Writer
	if format == FormatText {
		progress = progressOut()
	}
	var report SnapshotReport
	err = ui.Run(progress, "Fetching "+s.client.BaseURL(), func() error {
		var err error
		report, err = collectSnapshot(ctx, s.client, s.client.BaseURL(), s.metrics)
		return err
	})
	if err != nil {
		if format == FormatJSON {
			_ = WriteJSONFromError(w, err)
		}
		return err
	}
	return writeSnapshot(w, format, report)
}

// collectSnapshot refreshes every task once through a Poller and waits for
// all of them to land in a Store, the same path the dashboard uses.
func collectSnapshot(ctx context.Context, fetch dashboard.Fetcher, backend string, metrics *dashboard.Metrics) (SnapshotReport, error) {
	store := dashboard.NewStore(metrics)

	var wg sync.WaitGroup
	wg.Add(len(dashboard.AllTasks))
	var mu sync.Mutex
	var fails []SnapshotFail

	sink := dashboard.SinkFunc(func(u dashboard.Update) {
		defer wg.Done()
		store.Deliver(u)
		if u.Err != nil {
			mu.Lock()
			fails = append(fails, SnapshotFail{Task: string(u.Task), Error: errors.Summary(u.Err)})
			mu.Unlock()
		}
	})

	poller := dashboard.NewPoller(fetch, sink, dashboard.Schedule{}, dashboard.WithMetrics(metrics))
	poller.Start(ctx)
	poller.Refresh(dashboard.AllTasks...)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	poller.Stop()

	if ctx.Err() != nil {
		return SnapshotReport{}, errors.WrapWithCode(ctx.Err(), errors.ErrFetch,
			"Timed out waiting for "+backend,
			"Check the backend is running, or raise --timeout")
	}
	if len(fails) == len(dashboard.AllTasks) {
		return SnapshotReport{}, errors.New(errors.ErrFetch,
			"Couldn't reach "+backend,
			"Start a backend with 'socdash serve' or point --url at one")
	}

	report := buildReport(store, backend)
	report.Errors = fails
	return report, nil
}

func buildReport(store *dashboard.Store, backend string) SnapshotReport {
	r := SnapshotReport{
		Backend: backend,
		TakenAt: time.Now(),
		Stats:   []StatRow{},
		Alerts:  []AlertRow{},
		Logs:    []LogRow{},
		Charts:  []ChartRow{},
	}

	board := dashboard.NewBoard(0, 0)
	if st, ok := store.Stats(); ok {
		board.ApplyStats(st)
	}
	for _, f := range dashboard.StatFields {
		r.Stats = append(r.Stats, StatRow{Name: f.Label(), Value: board.Value(f)})
	}

	alerts, _ := store.Alerts()
	list := dashboard.AlertCards(alerts)
	for i, card := range list.Cards {
		r.Alerts = append(r.Alerts, AlertRow{
			ID:          card.ID,
			Threat:      alerts[i].ThreatType,
			Severity:    string(alerts[i].Severity),
			Description: card.Description,
			Detected:    card.Detected,
			Actions:     card.Actions,
		})
	}

	for _, l := range dashboard.LogLines(store.Logs()) {
		r.Logs = append(r.Logs, LogRow{Time: l.Clock, Source: l.Source, Message: l.Message})
	}

	cd, ok := store.Charts()
	if !ok {
		return r
	}
	charts := dashboard.NewCharts(dashboard.ChartOptions{})
	charts.ApplyData(cd)
	for _, id := range charts.MountedIDs() {
		c, ok := charts.Snapshot(id)
		if !ok || len(c.Series) == 0 {
			continue
		}
		r.Charts = append(r.Charts, ChartRow{
			Chart:  string(id),
			Title:  c.Title,
			Labels: c.Labels,
			Values: c.Series[0].Values,
		})
	}
	return r
}

func writeSnapshot(w io.Writer, format string, r SnapshotReport) error {
	switch format {
	case FormatJSON:
		return WriteJSONSuccess(w, r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		writeSnapshotText(w, r)
		return nil
	}
}

func writeSnapshotText(w io.Writer, r SnapshotReport) {
	fmt.Fprintf(w, "socdash snapshot of %s at %s\n\n", r.Backend, r.TakenAt.Format("15:04:05"))

	for _, s := range r.Stats {
		fmt.Fprintf(w, "  %-18s %s\n", s.Name, s.Value)
	}

	fmt.Fprintf(w, "\nActive alerts (%d)\n", len(r.Alerts))
	if len(r.Alerts) == 0 {
		fmt.Fprintf(w, "  %s %s\n", dashboard.AllClearTitle, dashboard.AllClearBody)
	}
	for _, a := range r.Alerts {
		fmt.Fprintf(w, "  #%d %s [%s] %s\n", a.ID, a.Threat, a.Severity, a.Detected)
		fmt.Fprintf(w, "     actions: %s\n", strings.Join(a.Actions, " | "))
	}

	fmt.Fprintf(w, "\nRecent logs (%d)\n", len(r.Logs))
	for _, l := range r.Logs {
		fmt.Fprintf(w, "  %s [%s] %s\n", l.Time, l.Source, l.Message)
	}

	if len(r.Charts) > 0 {
		fmt.Fprintln(w, "\nCharts")
		for _, c := range r.Charts {
			pairs := make([]string, len(c.Labels))
			for i := range c.Labels {
				pairs[i] = fmt.Sprintf("%s=%g", c.Labels[i], c.Values[i])
			}
			fmt.Fprintf(w, "  %-20s %s\n", c.Title, strings.Join(pairs, " "))
		}
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Task, e.Error)
		}
	}
}
