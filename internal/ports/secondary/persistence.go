// Package secondary defines the secondary ports (driven adapters) for the
// engine. These are the interfaces through which the application drives
// the event store, reference-data repositories, and the notifier.
package secondary

import (
	"context"
	"errors"

	"github.com/example/dispatch/internal/core/event"
)

// ErrSequenceConflict is returned by Append when the expected sequence no
// longer matches the conversation's last committed event. The application
// layer maps it to its ErrConflict taxonomy entry.
var ErrSequenceConflict = errors.New("sequence conflict")

// EventStore defines the secondary port for the append-only event log.
// Sequence numbers are monotonically increasing and assigned on append;
// appended events are immutable and never reordered.
type EventStore interface {
	// Append durably writes one event and returns its sequence number.
	// expectedSeq is the sequence of the last event the caller observed
	// for the event's conversation (0 for none); when another append for
	// the same conversation committed in between, Append fails with
	// ErrSequenceConflict and writes nothing. Events without a
	// conversation id (pure user events) skip the check.
	Append(ctx context.Context, e event.Event, expectedSeq uint64) (uint64, error)

	// ReadFrom returns events with sequence > after, in sequence order.
	// Restartable: callers resume from the last sequence they processed.
	ReadFrom(ctx context.Context, after uint64) ([]event.Event, error)

	// LastSeq returns the sequence of the conversation's most recent
	// event, or 0 when it has none.
	LastSeq(ctx context.Context, conversationID string) (uint64, error)
}

// AgentRepository defines the secondary port for agent reference data.
// Presence and load are projections of the event log, not columns here.
type AgentRepository interface {
	// Create persists a new agent.
	Create(ctx context.Context, agent *AgentRecord) error

	// GetByID retrieves an agent by id.
	GetByID(ctx context.Context, id string) (*AgentRecord, error)

	// List retrieves all agents, ordered by id.
	List(ctx context.Context) ([]*AgentRecord, error)
}

// AgentRecord represents an agent as stored in persistence.
type AgentRecord struct {
	ID        string
	FullName  string
	Role      string
	CreatedAt string
}

// ConversationRepository defines the secondary port for conversation
// intake rows. Lifecycle state is a projection of the event log; this
// table records only that a conversation exists and when it arrived.
type ConversationRepository interface {
	// Create persists a new conversation intake row.
	Create(ctx context.Context, conversation *ConversationRecord) error

	// GetByID retrieves a conversation intake row by id.
	GetByID(ctx context.Context, id string) (*ConversationRecord, error)

	// List retrieves all intake rows, oldest first.
	List(ctx context.Context) ([]*ConversationRecord, error)
}

// ConversationRecord represents a conversation intake row.
type ConversationRecord struct {
	ID          string
	ClientPhone string
	LastMessage string
	CreatedAt   string
}

// HierarchyRepository defines the secondary port for the reporting
// relation. A weak reference used for authorization lookups only.
type HierarchyRepository interface {
	// SetParent records parentID as the direct superior of childID,
	// replacing any previous relation for the child.
	SetParent(ctx context.Context, parentID, childID string) error

	// Ancestors returns the transitive chain of superiors of the agent,
	// nearest first.
	Ancestors(ctx context.Context, agentID string) ([]string, error)

	// Descendants returns every agent transitively reporting to parentID.
	Descendants(ctx context.Context, parentID string) ([]string, error)
}
