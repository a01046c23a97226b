// Package main provides the operator CLI for deployment and operations tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "operator",
		Short: "MindCare deployment and operations CLI",
		Long: `operator runs database migrations, checks the environment, and lets you
try the mood engine from the terminal without starting the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newValidateCmd(),
		newAnalyzeCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "mindcare operator v%s\n", version)
			},
		},
	)
	return root
}
