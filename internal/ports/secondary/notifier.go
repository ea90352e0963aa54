package secondary

import "context"

// Notifier defines the secondary port for pushing assignment changes to
// interested parties (the assignee, their chain of superiors, principals).
// Delivery is best-effort: a failed notification never rolls back the
// committed event.
type Notifier interface {
	// NotifyAssignment publishes an assignment change.
	NotifyAssignment(ctx context.Context, n AssignmentNotification) error

	// Close releases the underlying transport.
	Close() error
}

// AssignmentNotification describes a committed assignment change.
type AssignmentNotification struct {
	ConversationID string   `json:"conversation_id"`
	Kind           string   `json:"kind"` // ASSIGNED, TRANSFERRED, INTERVENTION, END_CHAT
	AgentID        string   `json:"agent_id"`
	PreviousAgent  string   `json:"previous_agent,omitempty"`
	Recipients     []string `json:"recipients"`
	Seq            uint64   `json:"seq"`
}
