package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/socdash/internal/config"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string // Directory to write .socdash.yaml into
	BaseURL        string // Pre-specified backend URL
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

// Refresh presets offered by the interactive init.
const (
	presetRelaxed  = "relaxed"
	presetStandard = "standard"
	presetFast     = "fast"
)

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .socdash.yaml in the current directory",
	Long: `Create a .socdash.yaml config file. Prompts for the backend URL, refresh
speed and color mode unless --non-interactive is set.

Examples:
  socdash init
  socdash init --non-interactive --url http://soc.internal:5000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		if opts.BaseURL == "" {
			opts.BaseURL = baseURLFlag
		}
		return Init(cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initOpts.Overwrite, "force", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts and use defaults")
}

// Init creates a new .socdash.yaml configuration file.
func Init(w io.Writer, opts InitOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	if !opts.NonInteractive && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New(errors.ErrConfig,
			"No terminal to prompt on",
			"Run 'socdash init --non-interactive' instead")
	}

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}

	if !opts.NonInteractive {
		baseURL := cfg.API.BaseURL
		preset := presetStandard
		color := cfg.UI.Color

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Backend URL").
					Description("Where the SOC API lives. 'socdash serve' listens on :5000.").
					Placeholder(cfg.API.BaseURL).
					Value(&baseURL).
					Validate(config.ValidateBaseURL),
			),
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Refresh speed").
					Options(
						huh.NewOption("Relaxed (stats every 10s)", presetRelaxed),
						huh.NewOption("Standard (stats every 3s)", presetStandard),
						huh.NewOption("Fast (stats every second)", presetFast),
					).
					Value(&preset),
				huh.NewSelect[string]().
					Title("Colors").
					Options(
						huh.NewOption("Auto-detect", "auto"),
						huh.NewOption("Always", "always"),
						huh.NewOption("Never", "never"),
					).
					Value(&color),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}

		cfg.API.BaseURL = baseURL
		cfg.Poll = pollPreset(preset)
		cfg.UI.Color = color
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(configPath, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+configPath,
			"Check you have write access to the directory")
	}

	fmt.Fprintf(w, "✓ Wrote %s\n", configPath)
	fmt.Fprintln(w, "  Run 'socdash watch' to open the dashboard.")
	return nil
}

// pollPreset returns the poll periods for a refresh preset.
func pollPreset(name string) config.PollConfig {
	switch name {
	case presetRelaxed:
		return config.PollConfig{Stats: 10 * time.Second, Logs: 5 * time.Second, Alerts: 10 * time.Second, Charts: 10 * time.Second}
	case presetFast:
		return config.PollConfig{Stats: time.Second, Logs: time.Second, Alerts: time.Second, Charts: 2 * time.Second}
	default:
		return config.DefaultConfig().Poll
	}
}
