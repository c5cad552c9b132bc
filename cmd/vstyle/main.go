package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recera/vango-styles/internal/config"
	"github.com/recera/vango-styles/internal/logging"
	"github.com/recera/vango-styles/pkg/styling"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

// app carries what every command needs, prepared before it runs
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func (a *app) prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Console.Level = a.logLevel
	}
	log, err := logging.NewWithWriters(cfg.Logging.Console.Level, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// logToStderr sends every log message to stderr, for commands whose stdout
// carries data
func (a *app) logToStderr(cmd *cobra.Command) error {
	log, err := logging.NewWithWriters(a.cfg.Logging.Console.Level, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	_ = a.log.Sync()
	a.log = log
	return nil
}

func (a *app) engine(opts ...styling.Option) *styling.Engine {
	return styling.New(append([]styling.Option{
		styling.WithUnits(a.cfg.Units()),
		styling.WithLogger(a.log),
	}, opts...)...)
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "vstyle",
		Short: "vstyle - atomic CSS from style objects",
		Long: `vstyle compiles style objects (YAML or JSON) into atomic, deduplicated
CSS rules: one rule per declaration, named by a hash of the declaration, so
equal declarations anywhere share one class.`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:      true,
		PersistentPreRunE: a.prepare,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Console log level: none, normal or debug")

	rootCmd.AddCommand(newBuildCommand(a))
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
