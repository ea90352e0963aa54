package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/wire"
)

// TransferCmd returns the transfer command
func TransferCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "transfer [conversation-id] [to-agent-id]",
		Short: "Transfer an OPEN conversation to another agent",
		Long: `Hand a conversation to another agent. The actor must be a
SUPERVISOR, PRINCIPAL, or ADMIN; supervisors and principals must be
responsible for one side of the handoff. The target must be ONLINE and
under capacity.

Examples:
  dispatch transfer conv-demo-001 luis.agent --actor carlos.super`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if actor == "" {
				return fmt.Errorf("--actor is required")
			}
			ctx := ctxutil.WithActorID(context.Background(), actor)

			if err := wire.OverrideService().RequestTransfer(ctx, args[0], args[1], actor); err != nil {
				return fmt.Errorf("failed to transfer conversation: %w", err)
			}

			fmt.Printf("✓ Transferred conversation %s to %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Acting supervisor id")

	return cmd
}

// InterveneCmd returns the intervene command
func InterveneCmd() *cobra.Command {
	var supervisor string

	cmd := &cobra.Command{
		Use:   "intervene [conversation-id]",
		Short: "Take a conversation over as a supervisor",
		Long: `Reassign the conversation to the supervisor themselves, bypassing
the capacity cap. The takeover is recorded as a distinct INTERVENTION
event so audit can tell it apart from an agent-to-agent transfer.

Examples:
  dispatch intervene conv-demo-001 --supervisor carlos.super`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if supervisor == "" {
				return fmt.Errorf("--supervisor is required")
			}
			ctx := ctxutil.WithActorID(context.Background(), supervisor)

			if err := wire.OverrideService().RequestIntervention(ctx, args[0], supervisor); err != nil {
				return fmt.Errorf("failed to intervene: %w", err)
			}

			fmt.Printf("✓ %s took over conversation %s\n", supervisor, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&supervisor, "supervisor", "", "Intervening supervisor id")

	return cmd
}
