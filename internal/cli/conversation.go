package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/wire"
)

// ConversationCmd returns the conversation command
func ConversationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conversation",
		Short: "Manage conversations",
		Long:  `Submit, inspect, close, and withdraw customer conversations.`,
	}

	cmd.AddCommand(conversationSubmitCmd())
	cmd.AddCommand(conversationShowCmd())
	cmd.AddCommand(conversationPendingCmd())
	cmd.AddCommand(conversationCloseCmd())
	cmd.AddCommand(conversationWithdrawCmd())

	return cmd
}

func conversationSubmitCmd() *cobra.Command {
	var phone string
	var message string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new conversation",
		Long: `Register a new conversation in PENDING state and wake the scheduler.

Examples:
  dispatch conversation submit --phone +50377001122 --message "Necesito ayuda"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			id, err := wire.ConversationService().SubmitConversation(ctx, primary.SubmitConversationRequest{
				ClientPhone: phone,
				LastMessage: message,
			})
			if err != nil {
				return fmt.Errorf("failed to submit conversation: %w", err)
			}

			fmt.Printf("✓ Submitted conversation %s (PENDING)\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Client phone number")
	cmd.Flags().StringVar(&message, "message", "", "First message")

	return cmd
}

func conversationShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [conversation-id]",
		Short: "Show a conversation's projected state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c, err := wire.ConversationService().GetConversation(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get conversation: %w", err)
			}

			fmt.Printf("Conversation: %s\n", c.ID)
			fmt.Printf("  State:      %s\n", c.State)
			if c.AssigneeID != "" {
				fmt.Printf("  Assignee:   %s\n", c.AssigneeID)
			}
			if c.ClientPhone != "" {
				fmt.Printf("  Client:     %s\n", c.ClientPhone)
			}
			fmt.Printf("  Created:    %s\n", c.CreatedAt)
			if c.ClosedAt != "" {
				fmt.Printf("  Closed:     %s\n", c.ClosedAt)
			}
			return nil
		},
	}

	return cmd
}

func conversationPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List PENDING conversations, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pending, err := wire.ConversationService().ListPending(ctx)
			if err != nil {
				return fmt.Errorf("failed to list pending conversations: %w", err)
			}

			if len(pending) == 0 {
				fmt.Println("No pending conversations.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCLIENT\tCREATED")
			for _, c := range pending {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.ClientPhone, c.CreatedAt)
			}
			return w.Flush()
		},
	}

	return cmd
}

func conversationCloseCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "close [conversation-id]",
		Short: "Close an OPEN conversation",
		Long: `End a conversation. Agents may only close conversations assigned to
them; supervisors may close conversations of agents they are responsible
for.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if actor == "" {
				return fmt.Errorf("--actor is required")
			}
			ctx := ctxutil.WithActorID(context.Background(), actor)

			if err := wire.ConversationService().CloseConversation(ctx, args[0], actor); err != nil {
				return fmt.Errorf("failed to close conversation: %w", err)
			}

			fmt.Printf("✓ Closed conversation %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Acting agent id")

	return cmd
}

func conversationWithdrawCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "withdraw [conversation-id]",
		Short: "Withdraw a PENDING conversation",
		Long:  `Cancel a conversation that was never assigned.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxutil.WithActorID(context.Background(), actor)

			if err := wire.ConversationService().WithdrawConversation(ctx, args[0], actor); err != nil {
				return fmt.Errorf("failed to withdraw conversation: %w", err)
			}

			fmt.Printf("✓ Withdrew conversation %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "client", "Acting party id")

	return cmd
}
