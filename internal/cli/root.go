// Package cli wires the command line entry points of the exam server.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "examapp",
		Short:         "Online exam platform API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("port", "", "port to listen on (overrides SERVER_PORT)")
	cmd.PersistentFlags().String("log-level", "", "log level (overrides LOG_LEVEL)")
	_ = viper.BindPFlag("SERVER_PORT", cmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}
