package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/production"
)

func newChartCmd(_ *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the calculator state chart as Graphviz DOT or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := calcx.New()
			v := &production.DefaultVisualizer{}

			if asJSON {
				data, err := v.ExportJSON(e.Chart())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), v.ExportDOT(e.Chart(), e.State()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of DOT")
	return cmd
}
