package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an overview of agents and waiting conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agents, err := wire.AgentService().ListAgents(ctx)
			if err != nil {
				return fmt.Errorf("failed to list agents: %w", err)
			}
			pending, err := wire.ConversationService().ListPending(ctx)
			if err != nil {
				return fmt.Errorf("failed to list pending conversations: %w", err)
			}

			bold := color.New(color.Bold)
			green := color.New(color.FgGreen)
			yellow := color.New(color.FgYellow)
			red := color.New(color.FgRed)

			bold.Println("Agents")
			if len(agents) == 0 {
				fmt.Println("  (none registered)")
			}
			for _, a := range agents {
				var presence string
				switch a.Presence {
				case "ONLINE":
					presence = green.Sprint(a.Presence)
				case "OFFLINE":
					presence = red.Sprint(a.Presence)
				default:
					presence = yellow.Sprint(a.Presence)
				}
				fmt.Printf("  %-20s %-12s %s  load %d\n", a.ID, a.Role, presence, a.Load)
			}

			fmt.Println()
			bold.Printf("Pending conversations: %d\n", len(pending))
			for _, c := range pending {
				fmt.Printf("  %-20s %s  since %s\n", c.ID, c.ClientPhone, c.CreatedAt)
			}

			return nil
		},
	}

	return cmd
}
