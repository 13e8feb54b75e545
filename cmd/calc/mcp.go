package main

import (
	"github.com/spf13/cobra"

	"github.com/comalice/calcx/internal/server"
	"github.com/comalice/calcx/internal/session"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve calculator sessions as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, closeStore, err := a.cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					a.logger.Warn("closing session store", "error", err)
				}
			}()

			opts := []session.Option{session.WithLogger(a.logger)}
			if store != nil {
				opts = append(opts, session.WithPersister(store))
			}
			reg := session.NewRegistry(opts...)

			a.logger.Info("session store ready", "driver", a.cfg.Store.Driver)
			return server.NewCalculatorServer(reg, a.keys, a.logger).Start(ctx)
		},
	}
}
