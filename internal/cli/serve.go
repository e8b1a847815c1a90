package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/socdash/internal/config"
	"github.com/rileyhilliard/socdash/internal/demoapi"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/logger"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveDB     string
	serveNoSeed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bundled demo backend",
	Long: `Run a self-contained SOC backend backed by SQLite. It serves every
endpoint the dashboard polls, accepts simulations and response actions, and
writes a routine log line every few seconds.

Examples:
  socdash serve
  socdash serve --addr :8080 --db /tmp/soc.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default serve.addr, :5000)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default serve.db, soc.db)")
	serveCmd.Flags().BoolVar(&serveNoSeed, "no-seed", false, "don't write startup log lines into an empty database")
}

func serveCommand(parent context.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	addr, dbPath := cfg.Serve.Addr, cfg.Serve.DB
	if serveAddr != "" {
		addr = serveAddr
	}
	if serveDB != "" {
		dbPath = serveDB
	}
	dbPath = config.ExpandTilde(dbPath)

	// The server has the terminal to itself, so it logs there by default.
	var log logger.Logger = logger.NewEnvLogger("[serve]")
	if logFile != "" {
		var closeLog func() error
		log, closeLog, err = newLogger("[serve]", false)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := demoapi.Open(ctx, dbPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrServe,
			"Can't open the demo database "+dbPath,
			"Check the path is writable, or pass --db")
	}
	defer store.Close()

	if !serveNoSeed {
		if err := store.Seed(ctx); err != nil {
			return errors.WrapWithCode(err, errors.ErrServe, "Can't seed the demo database", "")
		}
	}

	srv := demoapi.NewServer(store,
		demoapi.WithLogger(log),
		demoapi.WithTrafficInterval(cfg.Serve.LogMin, cfg.Serve.LogMax))
	return srv.ListenAndServe(ctx, addr)
}
