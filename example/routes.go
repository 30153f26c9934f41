package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/servo"
	"github.com/dmitrymomot/servo/example/handlers"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := servo.New(servo.WithHandlers(tables()...))
			if _, err := app.Build(cmd.Context()); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tVERSION\tNAME")
			for _, r := range app.Routes() {
				version := r.Version
				if version == "" {
					version = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Method, r.Path, version, r.Name)
			}
			return w.Flush()
		},
	}
}

func tables() []servo.RouteTable {
	return []servo.RouteTable{
		handlers.NewContacts(),
		handlers.Account{},
	}
}
