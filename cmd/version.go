package cmd

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sip2d version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("sip2d " + version)
		},
	}
}
