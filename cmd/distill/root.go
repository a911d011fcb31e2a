package main

import (
	"io"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. It is filled in by the root
// command's pre-run hook.
type app struct {
	getenv config.Getenv
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg    *config.Config
	logger *logrus.Logger
	styles styles
	closer io.Closer
}

func newRootCmd(getenv config.Getenv, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		getenv: getenv,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		styles: newStyles(distill.DefaultTheme()),
	}

	root := &cobra.Command{
		Use:   "distill",
		Short: "Stream LLM responses and repair them into JSON",
		Long: `distill streams a completion from an LLM provider, shows progress while the
response arrives, and turns the finished text into a parsed JSON document,
repairing common model mistakes when the text does not parse as-is.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/distill/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")

	root.AddCommand(
		a.streamCmd(),
		a.replayCmd(),
		a.repairCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath(a.getenv)
	}
	cfg, err := config.Load(path, a.getenv)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if _, err := logrus.ParseLevel(a.logLevel); err != nil {
			return err
		}
		cfg.Log.LevelName = a.logLevel
	}
	a.cfg = cfg
	a.logger, a.closer = newLogger(cfg.Log, a.stderr)
	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
