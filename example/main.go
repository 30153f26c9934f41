// Command example is a small contacts service built on servo.
//
//	example migrate
//	example serve --config config.yaml
//	example routes
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "example",
		Short:         "Contacts service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
		routesCmd(),
	)
	return root
}
