package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/config"
	"github.com/comalice/calcx/internal/keymap"
	"github.com/comalice/calcx/internal/tui"
)

type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	keys   *keymap.Keymap
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "calc",
		Short:        "A four-function calculator driven by a state machine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The engine logs nothing here: stderr shares the terminal.
			return tui.Run(calcx.New(), a.keys)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newEvalCmd(a),
		newChartCmd(a),
		newMCPCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}

	keys, err := cfg.Keys()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.keys = keys
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Level())
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
