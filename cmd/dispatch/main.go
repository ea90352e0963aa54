package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/cli"
	"github.com/example/dispatch/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "dispatch",
		Short:   "dispatch - conversation assignment and presence coordination",
		Version: version.String(),
		Long: `dispatch routes customer conversations to available agents.
It tracks agent presence, enforces per-agent capacity, and records every
assignment decision in an append-only event log.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.AgentCmd())
	rootCmd.AddCommand(cli.PresenceCmd())
	rootCmd.AddCommand(cli.ConversationCmd())
	rootCmd.AddCommand(cli.TransferCmd())
	rootCmd.AddCommand(cli.InterveneCmd())
	rootCmd.AddCommand(cli.ScheduleCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
