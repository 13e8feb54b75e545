package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/production"
)

func newEvalCmd(a *app) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "eval KEYS...",
		Short: "Press keys and print the display",
		Long: "Press keys and print the display. Keys use the keyboard bindings, so\n" +
			"\"12+3*2=\" prints 30. Arguments are joined and whitespace is ignored.",
		Example: "  calc eval '2+3*4='\n  calc eval --trace 9 n r 4",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.keys.Keys(strings.Join(args, " "))
			if err != nil {
				return err
			}

			steps := make(chan production.PublishedStep, len(inputs))
			pub := production.NewChannelPublisher(steps, "eval")
			e := calcx.New(calcx.WithLogger(a.logger), calcx.WithObserver(pub.Publish))

			for _, in := range inputs {
				if _, err := e.Apply(in); err != nil {
					return err
				}
			}
			_ = pub.Close()

			out := cmd.OutOrStdout()
			if trace {
				for s := range steps {
					fmt.Fprintf(out, "%-10s %-6s %s\n", s.Step.Input, s.Step.State, s.Step.Expression)
				}
			}
			fmt.Fprintln(out, e.Display())
			if err := e.Err(); err != nil {
				a.logger.Warn("evaluation ended in error", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "Print every step before the result")
	return cmd
}
