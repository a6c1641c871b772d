package main

import (
	"fmt"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries state shared by subcommands once the root pre-run has loaded
// configuration.
type app struct {
	configPath string
	debug      bool
	json       bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "job_matcher",
		Short:         "Student and job matching service",
		Long:          "job_matcher scores students against active job postings, persists one match per pair and serves the results over a REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./job-matcher.yaml)")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&a.json, "json", "j", false, "log as JSON")

	root.AddCommand(
		newServeCmd(a),
		newMatchCmd(a),
		newMatchesCmd(a),
		newExportCmd(a),
		newMigrateCmd(a),
		newImportCmd(a),
		newTokenCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Log.Debug = a.debug
	}
	if cmd.Flags().Changed("json") {
		cfg.Log.JSON = a.json
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
