// Package event defines the append-only facts that make up the engine's
// event log. The log is the source of truth: presence, load, and
// conversation state are all projections folded from these records in
// sequence order.
package event

import (
	"fmt"
	"time"

	"github.com/example/dispatch/internal/core/identity"
)

// Kind identifies the type of a logged fact.
type Kind string

// Assignment event kinds. INTERVENTION is deliberately distinct from
// TRANSFERRED: audit and compliance roles rely on telling "supervisor takes
// over" apart from "agent-to-agent handoff".
const (
	KindAssigned     Kind = "ASSIGNED"
	KindTransferred  Kind = "TRANSFERRED"
	KindIntervention Kind = "INTERVENTION"
)

// User event kinds.
const (
	KindStateChange Kind = "STATE_CHANGE"
	KindTransfer    Kind = "TRANSFER"
	KindEndChat     Kind = "END_CHAT"
)

// Kinds lists every recognized event kind.
var Kinds = []Kind{
	KindAssigned,
	KindTransferred,
	KindIntervention,
	KindStateChange,
	KindTransfer,
	KindEndChat,
}

// ParseKind validates a raw kind against the closed set.
func ParseKind(raw string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown event kind %q", raw)
}

// Assignment reports whether the kind belongs to the assignment family
// (targets a conversation) rather than the user-log family.
func (k Kind) Assignment() bool {
	return k == KindAssigned || k == KindTransferred || k == KindIntervention
}

// Event is a single immutable fact. Seq is assigned by the event store on
// append and is zero until then.
type Event struct {
	Seq            uint64
	Kind           Kind
	ConversationID string // empty for pure user events (STATE_CHANGE)
	AgentID        string // target agent (assignee, or the agent whose state changed)
	FromAgentID    string // previous assignee on TRANSFERRED/INTERVENTION
	ActorID        string // who initiated the intent
	ActorRole      identity.Role
	Detail         string // new presence state, close reason, etc.
	CreatedAt      time.Time
}

// Validate checks the structural invariants of a fact before it reaches the
// store. Kind-specific field requirements live here so every producer fails
// the same way.
func (e Event) Validate() error {
	if _, err := ParseKind(string(e.Kind)); err != nil {
		return err
	}
	if e.Kind.Assignment() || e.Kind == KindEndChat {
		if e.ConversationID == "" {
			return fmt.Errorf("%s event requires a conversation id", e.Kind)
		}
	}
	if e.AgentID == "" && e.Kind != KindEndChat {
		return fmt.Errorf("%s event requires an agent id", e.Kind)
	}
	if e.Kind == KindStateChange {
		if _, err := identity.ParsePresence(e.Detail); err != nil {
			return fmt.Errorf("STATE_CHANGE event: %w", err)
		}
	}
	return nil
}
