// Package cmd implements the sip2d command line interface.
package cmd

import "github.com/spf13/cobra"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sip2d",
		Short:         "SIP2 self-check server daemon",
		Long:          "sip2d runs a SIP2 (Standard Interchange Protocol v2) server that fronts a library system for self-check terminals: terminal login, patron and item inquiries, and circulation transactions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newStopCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
