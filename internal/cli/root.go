package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile     string
	baseURLFlag string
	verbose     bool
	logFile     string
	metricsAddr string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "socdash",
	Short: "Terminal dashboard for a security operations center",
	Long: `socdash polls a SOC backend for stats, logs, alerts and chart data and
renders them as a live terminal dashboard. You can simulate attacks and run
response actions against alerts from the keyboard.

Run 'socdash serve' in another terminal for a self-contained demo backend.

Examples:
  socdash watch
  socdash chart geographic
  socdash snapshot --format json
  socdash simulate brute-force`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .socdash.yaml, searched upward)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "url", "", "backend base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(exitCode(err))
	}
}

// formatError renders structured errors as-is and prefixes anything else
// the same way.
func formatError(err error) string {
	if _, ok := err.(*errors.Error); ok {
		return err.Error()
	}
	return fmt.Sprintf("✗ %s\n", err)
}

// exitCode maps an error to the process exit status: 2 for usage and config
// problems, 1 for everything else.
func exitCode(err error) int {
	if errors.IsCode(err, errors.ErrConfig) {
		return 2
	}
	return 1
}
