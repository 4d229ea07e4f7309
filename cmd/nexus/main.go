package main

import (
	"os"

	"github.com/spf13/cobra"

	"nexus/internal/interfaces/cli/jobs"
	"nexus/internal/interfaces/cli/migrate"
	"nexus/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nexus",
		Short: "Nexus membership service",
		Long:  `Nexus manages paid memberships: plan subscriptions, renewals, approvals, and the recurring cut jobs.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		jobs.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
