// Package authority contains the pure authorization guards for
// supervisor-initiated transfers and interventions. This is part of the
// Functional Core - hierarchy lookups are pre-fetched by the caller.
package authority

import (
	"fmt"

	"github.com/example/dispatch/internal/core/identity"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// TransferContext provides pre-fetched context for transfer guards.
type TransferContext struct {
	ConversationID string
	ActorID        string
	ActorRole      identity.Role
	// ResponsibleForFrom / ResponsibleForTo report whether the actor is a
	// hierarchy ancestor of the current and prospective assignee.
	ResponsibleForFrom bool
	ResponsibleForTo   bool
}

// CanTransfer evaluates whether the actor may hand the conversation to
// another agent. Rule: only supervisory roles transfer; SUPERVISOR and
// PRINCIPAL must be responsible for one side of the handoff per the
// hierarchy relation; ADMIN is exempt from the hierarchy check.
func CanTransfer(ctx TransferContext) GuardResult {
	if !ctx.ActorRole.Supervisory() {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("role %s cannot transfer conversation %s",
				ctx.ActorRole, ctx.ConversationID),
		}
	}
	if ctx.ActorRole == identity.RoleAdmin {
		return GuardResult{Allowed: true}
	}
	if !ctx.ResponsibleForFrom && !ctx.ResponsibleForTo {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("%s %s is not responsible for either side of the transfer of conversation %s",
				ctx.ActorRole, ctx.ActorID, ctx.ConversationID),
		}
	}
	return GuardResult{Allowed: true}
}

// InterventionContext provides pre-fetched context for intervention guards.
type InterventionContext struct {
	ConversationID string
	SupervisorID   string
	SupervisorRole identity.Role
	// ResponsibleForAssignee is true when the supervisor is a hierarchy
	// ancestor of the current assignee. Ignored for unassigned (PENDING)
	// conversations, where HasAssignee is false.
	ResponsibleForAssignee bool
	HasAssignee            bool
}

// CanIntervene evaluates whether the supervisor may take the conversation
// over. Interventions bypass capacity entirely - the distinct INTERVENTION
// event kind is the audit control for that exemption.
func CanIntervene(ctx InterventionContext) GuardResult {
	if !ctx.SupervisorRole.Supervisory() {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("role %s cannot intervene on conversation %s",
				ctx.SupervisorRole, ctx.ConversationID),
		}
	}
	if ctx.SupervisorRole == identity.RoleAdmin {
		return GuardResult{Allowed: true}
	}
	if ctx.HasAssignee && !ctx.ResponsibleForAssignee {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("%s %s is not responsible for the assignee of conversation %s",
				ctx.SupervisorRole, ctx.SupervisorID, ctx.ConversationID),
		}
	}
	return GuardResult{Allowed: true}
}
