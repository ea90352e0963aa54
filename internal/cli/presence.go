package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/wire"
)

// PresenceCmd returns the presence command
func PresenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Manage agent presence",
		Long: `Record presence changes (ONLINE, BREAK, OFFLINE, LUNCH, RESTROOM)
and inspect an agent's current state and load.`,
	}

	cmd.AddCommand(presenceSetCmd())
	cmd.AddCommand(presenceShowCmd())

	return cmd
}

func presenceSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [agent-id] [state]",
		Short: "Set an agent's presence state",
		Long: `Record a presence change. Going OFFLINE never auto-transfers open
conversations; it only stops new assignments.

Examples:
  dispatch presence set ana.agent ONLINE
  dispatch presence set ana.agent LUNCH`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := wire.PresenceService().SetPresence(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to set presence: %w", err)
			}

			fmt.Printf("✓ %s is now %s\n", args[0], args[1])
			return nil
		},
	}

	return cmd
}

func presenceShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [agent-id]",
		Short: "Show an agent's presence and load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			presence, err := wire.PresenceService().GetPresence(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get presence: %w", err)
			}
			load, err := wire.PresenceService().GetAgentLoad(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get load: %w", err)
			}

			fmt.Printf("%s: %s, %d open conversation(s)\n", args[0], presence, load)
			return nil
		},
	}

	return cmd
}
