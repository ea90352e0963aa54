package primary

import "context"

// OverrideService defines the primary port for supervisor-initiated
// transfers and interventions.
type OverrideService interface {
	// RequestTransfer hands an OPEN conversation to another agent. The
	// actor must be supervisory and responsible for one side of the
	// handoff; the target must pass the capacity policy.
	RequestTransfer(ctx context.Context, conversationID, toAgentID, actorID string) error

	// RequestIntervention reassigns the conversation to the supervisor
	// themselves, bypassing capacity. Recorded as INTERVENTION, never as
	// TRANSFERRED.
	RequestIntervention(ctx context.Context, conversationID, supervisorID string) error
}

// SchedulerService defines the primary port for the assignment scheduler.
type SchedulerService interface {
	// Pass runs one scheduling pass: PENDING conversations oldest-first,
	// each matched to the best eligible agent. Returns the number of
	// assignments committed. Running out of eligible agents is a steady
	// state, not an error.
	Pass(ctx context.Context) (int, error)

	// Notify wakes the background scheduler without blocking. Safe from
	// any goroutine.
	Notify()

	// Run blocks, re-running passes whenever woken, until ctx is done.
	Run(ctx context.Context) error
}
