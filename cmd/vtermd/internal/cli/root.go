// Package cli wires the vtermd subcommands together with cobra.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

// Execute runs the vtermd root command.
func Execute() error {
	root := &cobra.Command{
		Use:   "vtermd",
		Short: "Terminal emulator engine host",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a vterm config YAML file")
	root.AddCommand(newRunCmd())
	root.AddCommand(newTailCmd())
	return root.Execute()
}
