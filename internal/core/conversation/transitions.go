// Package conversation contains the pure business logic for the
// conversation lifecycle. This is part of the Functional Core - no I/O,
// only pure functions.
package conversation

import "github.com/example/dispatch/internal/core/event"

// State represents the lifecycle state of a conversation.
type State string

const (
	// StatePending means the conversation is not yet assigned.
	StatePending State = "PENDING"
	// StateOpen means the conversation is assigned and in progress.
	StateOpen State = "OPEN"
	// StateClosed means the conversation is finished. Terminal.
	StateClosed State = "CLOSED"
)

// States lists every recognized conversation state, in seed order.
var States = []State{StatePending, StateOpen, StateClosed}

// InitialState returns the state for a newly submitted conversation.
func InitialState() State {
	return StatePending
}

// Transition identifies a requested lifecycle move.
type Transition string

const (
	// TransitionAssign moves PENDING to OPEN via the scheduler.
	TransitionAssign Transition = "assign"
	// TransitionTransfer changes the assignee of an OPEN conversation.
	// The state label does not change.
	TransitionTransfer Transition = "transfer"
	// TransitionIntervene reassigns to a supervisor. Opens a PENDING
	// conversation, keeps an OPEN one open.
	TransitionIntervene Transition = "intervene"
	// TransitionClose ends an OPEN conversation.
	TransitionClose Transition = "close"
	// TransitionWithdraw cancels a PENDING conversation before it is ever
	// assigned. The only path from PENDING to CLOSED.
	TransitionWithdraw Transition = "withdraw"
)

// Next returns the resulting state for a transition from the given state,
// or false when the state machine forbids the move. CLOSED is terminal:
// nothing moves out of it.
func Next(from State, t Transition) (State, bool) {
	switch t {
	case TransitionAssign:
		if from == StatePending {
			return StateOpen, true
		}
	case TransitionTransfer:
		if from == StateOpen {
			return StateOpen, true
		}
	case TransitionIntervene:
		if from == StatePending || from == StateOpen {
			return StateOpen, true
		}
	case TransitionClose:
		if from == StateOpen {
			return StateClosed, true
		}
	case TransitionWithdraw:
		if from == StatePending {
			return StateClosed, true
		}
	}
	return from, false
}

// EventKind returns the event kind recorded for an accepted transition.
// Exactly one event is appended per transition before any projection is
// updated.
func EventKind(t Transition) event.Kind {
	switch t {
	case TransitionAssign:
		return event.KindAssigned
	case TransitionTransfer:
		return event.KindTransferred
	case TransitionIntervene:
		return event.KindIntervention
	default:
		return event.KindEndChat
	}
}
