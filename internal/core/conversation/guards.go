package conversation

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

// TransitionContext provides the pre-fetched state for transition guards.
type TransitionContext struct {
	ConversationID string
	State          State
	AssigneeID     string // empty when unassigned
}

// CanTransition evaluates whether the state machine permits the move.
func CanTransition(ctx TransitionContext, t Transition) GuardResult {
	if _, ok := Next(ctx.State, t); !ok {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("conversation %s is %s: %s not permitted",
				ctx.ConversationID, ctx.State, t),
		}
	}
	return GuardResult{Allowed: true}
}

// CloseContext provides context for close authorization guards.
type CloseContext struct {
	ConversationID string
	AssigneeID     string
	ActorID        string
	ActorRole      identity.Role
	// ActorResponsible is true when the actor is a hierarchy ancestor of
	// the assignee. Pre-fetched by the caller - no I/O here.
	ActorResponsible bool
}

// CanClose evaluates whether the actor may end the conversation.
// Rule: agents close only their own conversations; supervisory roles must
// be responsible for the assignee; ADMIN closes anything.
func CanClose(ctx CloseContext) GuardResult {
	switch {
	case ctx.ActorRole == identity.RoleAdmin:
		return GuardResult{Allowed: true}
	case ctx.ActorRole == identity.RoleAgent:
		if ctx.ActorID != ctx.AssigneeID {
			return GuardResult{
				Allowed: false,
				Reason: fmt.Sprintf("agent %s cannot close conversation %s: not assigned to them",
					ctx.ActorID, ctx.ConversationID),
			}
		}
		return GuardResult{Allowed: true}
	case ctx.ActorRole.Supervisory():
		if ctx.ActorID == ctx.AssigneeID || ctx.ActorResponsible {
			return GuardResult{Allowed: true}
		}
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("%s %s is not responsible for the assignee of conversation %s",
				ctx.ActorRole, ctx.ActorID, ctx.ConversationID),
		}
	default:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("role %s cannot close conversations", ctx.ActorRole),
		}
	}
}
