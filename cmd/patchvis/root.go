package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"patch_visualizer/internal/config"
	"patch_visualizer/internal/diffcore"
	"patch_visualizer/internal/logging"
	"patch_visualizer/internal/visualizer"
)

// app is the state shared by every subcommand once the root command has set it up.
type app struct {
	configPath string
	verbose    bool
	engine     string

	cfg     *config.Config
	logger  *logging.Logger
	service *visualizer.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "patchvis [command]",
		Short: "Full-context diff viewer",
		Long: `patchvis shows the differences between two versions of a text document in the context of the
whole document. Output is a self-contained HTML page, unified diff text, or colored terminal output.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/patchvis/config.json)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr at debug level")
	flags.StringVar(&a.engine, "engine", "", "diff engine: myers, difflib (heuristic, not always minimal) or optimal (overrides config)")

	rootCmd.AddCommand(
		newDiffCmd(a),
		newPatchCmd(a),
		newApplyCmd(a),
		newGitCmd(a),
		newDirCmd(a),
		newViewCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and creates the logger and service.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.engine != "" {
		engine, err := diffcore.ParseEngine(a.engine)
		if err != nil {
			return err
		}
		cfg.Engine = string(engine)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	var logger *logging.Logger
	if a.verbose {
		logger = logging.NewConsoleLogger(cmd.ErrOrStderr(), logging.DEBUG)
	} else {
		logger, err = logging.NewLogger(level, "")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			// Only errors reach the stderr fallback.
			logger.SetLevel(logging.ERROR)
		}
	}

	logger.Info("patchvis starting", map[string]any{
		"version": appVersion,
		"command": cmd.Name(),
		"engine":  cfg.Engine,
	})

	a.cfg = cfg
	a.logger = logger
	a.service = visualizer.New(cfg, logger)
	return nil
}

// runE wraps a subcommand so teardown runs whether or not it fails.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.teardown(cmd.ErrOrStderr())
		return fn(cmd, args)
	}
}

// teardown persists remembered directories and reports logged errors.
func (a *app) teardown(stderr io.Writer) {
	if a.cfg == nil {
		return
	}
	if err := a.cfg.Save(); err != nil {
		a.logger.Warn("Failed to save config", map[string]any{"path": a.cfg.Path(), "error": err.Error()})
	}

	if a.logger.HasErrors() {
		stats := a.logger.GetStats()
		fmt.Fprintf(stderr, "\ncompleted with %d error(s)\n", stats.TotalErrors)
		if stats.TotalWarnings > 0 {
			fmt.Fprintf(stderr, "warnings: %d\n", stats.TotalWarnings)
		}
	}
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(stderr, "warning: close logger: %v\n", err)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "patchvis %s\n", appVersion)
		},
	}
}
