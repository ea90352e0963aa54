package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/dispatch/internal/wire"
)

// ScheduleCmd returns the schedule command
func ScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the assignment scheduler",
		Long: `Drive the scheduler that matches PENDING conversations to free
agents: oldest conversation first, fewest open assignments first, ties
broken by the longest-idle agent.`,
	}

	cmd.AddCommand(schedulePassCmd())
	cmd.AddCommand(scheduleServeCmd())

	return cmd
}

func schedulePassCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pass",
		Short: "Run a single scheduling pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			assigned, err := wire.SchedulerService().Pass(ctx)
			if err != nil {
				return fmt.Errorf("failed to run scheduling pass: %w", err)
			}

			fmt.Printf("✓ Assigned %d conversation(s)\n", assigned)
			return nil
		},
	}

	return cmd
}

func scheduleServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler loop until interrupted",
		Long: `Block and re-run scheduling passes whenever a submission, presence
change, or closure wakes the loop. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Println("Scheduler running. Press Ctrl-C to stop.")
			if err := wire.SchedulerService().Run(ctx); err != nil {
				return fmt.Errorf("scheduler stopped: %w", err)
			}
			return nil
		},
	}

	return cmd
}
