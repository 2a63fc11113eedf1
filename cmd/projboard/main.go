// Command projboard runs the project board web UI and a small CLI over the
// same store.
package main

import (
	"fmt"
	"os"

	"github.com/dori/projboard/internal/config"
	"github.com/dori/projboard/internal/db"
	"github.com/dori/projboard/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every subcommand
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "projboard",
		Short: "A personal project board",
		Long: `projboard keeps an ordered list of projects per category, moves them
through pending, started and completed, and serves a small web UI.

Running projboard without a subcommand starts the web server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, "")
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("PROJBOARD_CONFIG"), "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newBackupCmd(opts),
		newRestoreCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "projboard v%s\n", version)
			},
		},
	)
	return cmd
}

// load reads the configuration and builds the logger
func (o *globalOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openStore opens the database without taking the server's lock. One-shot
// commands rely on SQLite's own locking to coexist with a running server.
func (o *globalOptions) openStore() (*config.Config, *db.DB, func(), error) {
	cfg, logger, err := o.load()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := db.OpenDriver(cfg.Database.Driver, cfg.DBPath(), db.WithLogger(logger))
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	cleanup := func() {
		store.Close()
		_ = logger.Sync()
	}
	return cfg, store, cleanup, nil
}
