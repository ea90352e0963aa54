// Package primary defines the primary ports (driving interfaces) of the
// assignment engine, the DTOs crossing that boundary, and the error
// taxonomy surfaced to collaborators.
package primary

import "context"

// ConversationService defines the primary port for conversation intake and
// lifecycle operations.
type ConversationService interface {
	// SubmitConversation registers a new conversation in PENDING state and
	// returns its id. Always succeeds for a valid request.
	SubmitConversation(ctx context.Context, req SubmitConversationRequest) (string, error)

	// WithdrawConversation cancels a PENDING conversation before it is
	// ever assigned.
	WithdrawConversation(ctx context.Context, conversationID, actorID string) error

	// CloseConversation ends an OPEN conversation. The actor must be the
	// assignee, a responsible supervisor, or an admin.
	CloseConversation(ctx context.Context, conversationID, actorID string) error

	// GetConversation returns the projected view of one conversation.
	GetConversation(ctx context.Context, conversationID string) (*Conversation, error)

	// ListPending returns PENDING conversations, oldest first.
	ListPending(ctx context.Context) ([]*Conversation, error)
}

// SubmitConversationRequest carries the intake data for a new conversation.
type SubmitConversationRequest struct {
	ClientPhone string
	LastMessage string
}

// Conversation is the projected read model at the port boundary.
type Conversation struct {
	ID          string
	State       string // PENDING, OPEN, CLOSED
	AssigneeID  string // empty while PENDING or after withdrawal
	ClientPhone string
	LastMessage string
	CreatedAt   string
	ClosedAt    string // set only once CLOSED
}
