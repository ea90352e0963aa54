// Package cli contains the cobra command constructors for the dispatch
// binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

// AgentCmd returns the agent command
func AgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage agents and the reporting hierarchy",
		Long:  `Register agents, wire the supervisor hierarchy, and inspect presence and load.`,
	}

	cmd.AddCommand(agentRegisterCmd())
	cmd.AddCommand(agentShowCmd())
	cmd.AddCommand(agentListCmd())
	cmd.AddCommand(agentTeamCmd())
	cmd.AddCommand(agentHierarchyCmd())

	return cmd
}

func agentShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one agent's presence and load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent, err := wire.AgentService().GetAgent(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get agent: %w", err)
			}

			fmt.Printf("ID:       %s\n", agent.ID)
			fmt.Printf("Name:     %s\n", agent.FullName)
			fmt.Printf("Role:     %s\n", agent.Role)
			fmt.Printf("Presence: %s\n", agent.Presence)
			fmt.Printf("Load:     %d\n", agent.Load)
			return nil
		},
	}

	return cmd
}

func agentTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team [supervisor-id]",
		Short: "List everyone reporting to a supervisor",
		Long: `List every agent in the supervisor's transitive reporting chain with
presence and load. These are the agents the supervisor may transfer
from, transfer to, and intervene on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			team, err := wire.AgentService().ListTeam(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list team: %w", err)
			}

			if len(team) == 0 {
				fmt.Printf("Nobody reports to %s.\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE\tPRESENCE\tLOAD")
			for _, a := range team {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.ID, a.FullName, a.Role, a.Presence, a.Load)
			}
			return w.Flush()
		},
	}

	return cmd
}

func agentRegisterCmd() *cobra.Command {
	var role string
	var fullName string

	cmd := &cobra.Command{
		Use:   "register [id]",
		Short: "Register a new agent",
		Long: `Register an agent with a role from the closed set:
AGENT, SUPERVISOR, PRINCIPAL, ADMIN, SUPPORT, DATA_SECURITY, AUDIT.

New agents start OFFLINE until they set their presence.

Examples:
  dispatch agent register ana.agent --name "Ana Torres" --role AGENT
  dispatch agent register carlos.super --name "Carlos Mendez" --role SUPERVISOR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			err := wire.AgentService().RegisterAgent(ctx, primary.RegisterAgentRequest{
				ID:       args[0],
				FullName: fullName,
				Role:     role,
			})
			if err != nil {
				return fmt.Errorf("failed to register agent: %w", err)
			}

			fmt.Printf("✓ Registered %s agent %s\n", role, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "AGENT", "Role for the new agent")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name")

	return cmd
}

func agentListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents with presence and load",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agents, err := wire.AgentService().ListAgents(ctx)
			if err != nil {
				return fmt.Errorf("failed to list agents: %w", err)
			}

			if len(agents) == 0 {
				fmt.Println("No agents registered.")
				fmt.Println()
				fmt.Println("Register your first agent:")
				fmt.Println("  dispatch agent register ana.agent --role AGENT")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE\tPRESENCE\tLOAD")
			for _, a := range agents {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.ID, a.FullName, a.Role, a.Presence, a.Load)
			}
			return w.Flush()
		},
	}

	return cmd
}

func agentHierarchyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy [parent-id] [child-id]",
		Short: "Record a reporting relation",
		Long: `Record parent as the direct superior of child
(supervisor over agent, principal over supervisor). The relation is used
for transfer and intervention authorization.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := wire.AgentService().SetHierarchy(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to set hierarchy: %w", err)
			}

			fmt.Printf("✓ %s now supervises %s\n", args[0], args[1])
			return nil
		},
	}

	return cmd
}
