package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/dispatch/internal/core/conversation"
	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// ConversationServiceImpl implements the ConversationService interface.
type ConversationServiceImpl struct {
	conversationRepo secondary.ConversationRepository
	hierarchyRepo    secondary.HierarchyRepository
	store            secondary.EventStore
	projection       *Projection
	waker            Waker
	now              func() time.Time
}

// NewConversationService creates a new ConversationService with injected
// dependencies. waker may be nil when no background scheduler runs.
func NewConversationService(
	conversationRepo secondary.ConversationRepository,
	hierarchyRepo secondary.HierarchyRepository,
	store secondary.EventStore,
	projection *Projection,
	waker Waker,
) *ConversationServiceImpl {
	return &ConversationServiceImpl{
		conversationRepo: conversationRepo,
		hierarchyRepo:    hierarchyRepo,
		store:            store,
		projection:       projection,
		waker:            waker,
		now:              time.Now,
	}
}

// SubmitConversation registers a new conversation in PENDING state.
func (s *ConversationServiceImpl) SubmitConversation(ctx context.Context, req primary.SubmitConversationRequest) (string, error) {
	record := &secondary.ConversationRecord{
		ID:          uuid.NewString(),
		ClientPhone: req.ClientPhone,
		LastMessage: req.LastMessage,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	if err := s.conversationRepo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("%w: create conversation: %v", primary.ErrPersistence, err)
	}
	if err := s.projection.RegisterConversation(record); err != nil {
		return "", fmt.Errorf("register conversation: %w", err)
	}
	s.wake()
	return record.ID, nil
}

// WithdrawConversation cancels a PENDING conversation before assignment.
func (s *ConversationServiceImpl) WithdrawConversation(ctx context.Context, conversationID, actorID string) error {
	view, ok := s.projection.Conversation(conversationID)
	if !ok {
		return fmt.Errorf("%w: conversation %s", primary.ErrNotFound, conversationID)
	}

	guard := conversation.CanTransition(conversation.TransitionContext{
		ConversationID: view.ID,
		State:          view.State,
		AssigneeID:     view.AssigneeID,
	}, conversation.TransitionWithdraw)
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrInvalidTransition, guard.Reason)
	}

	e := event.Event{
		Kind:           event.KindEndChat,
		ConversationID: view.ID,
		ActorID:        actorID,
		Detail:         "withdrawn",
		CreatedAt:      s.now().UTC(),
	}
	return s.appendAndApply(ctx, e, view.LastSeq)
}

// CloseConversation ends an OPEN conversation.
func (s *ConversationServiceImpl) CloseConversation(ctx context.Context, conversationID, actorID string) error {
	view, ok := s.projection.Conversation(conversationID)
	if !ok {
		return fmt.Errorf("%w: conversation %s", primary.ErrNotFound, conversationID)
	}
	actor, ok := s.projection.Agent(actorID)
	if !ok {
		return fmt.Errorf("%w: agent %s", primary.ErrNotFound, actorID)
	}

	guard := conversation.CanTransition(conversation.TransitionContext{
		ConversationID: view.ID,
		State:          view.State,
		AssigneeID:     view.AssigneeID,
	}, conversation.TransitionClose)
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrInvalidTransition, guard.Reason)
	}

	responsible, err := isAncestor(ctx, s.hierarchyRepo, actorID, view.AssigneeID)
	if err != nil {
		return fmt.Errorf("close conversation: %w", err)
	}
	closeGuard := conversation.CanClose(conversation.CloseContext{
		ConversationID:   view.ID,
		AssigneeID:       view.AssigneeID,
		ActorID:          actorID,
		ActorRole:        actor.Role,
		ActorResponsible: responsible,
	})
	if !closeGuard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrUnauthorized, closeGuard.Reason)
	}

	e := event.Event{
		Kind:           event.KindEndChat,
		ConversationID: view.ID,
		AgentID:        view.AssigneeID,
		ActorID:        actorID,
		ActorRole:      actor.Role,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.appendAndApply(ctx, e, view.LastSeq); err != nil {
		return err
	}
	// Closing frees capacity, so a pending conversation may now schedule.
	s.wake()
	return nil
}

// GetConversation returns the projected view of one conversation. The
// intake table is authoritative for existence: an intake that landed
// through another process after this projection was rebuilt is folded in
// on first read instead of reported as missing.
func (s *ConversationServiceImpl) GetConversation(ctx context.Context, conversationID string) (*primary.Conversation, error) {
	view, ok := s.projection.Conversation(conversationID)
	if !ok {
		record, err := s.conversationRepo.GetByID(ctx, conversationID)
		if err != nil || record == nil {
			return nil, fmt.Errorf("%w: conversation %s", primary.ErrNotFound, conversationID)
		}
		if err := s.projection.RegisterConversation(record); err != nil {
			return nil, fmt.Errorf("register conversation: %w", err)
		}
		view, _ = s.projection.Conversation(conversationID)
	}
	return viewToConversation(view), nil
}

// ListPending returns PENDING conversations, oldest first.
func (s *ConversationServiceImpl) ListPending(ctx context.Context) ([]*primary.Conversation, error) {
	views := s.projection.Pending()
	pending := make([]*primary.Conversation, len(views))
	for i, view := range views {
		pending[i] = viewToConversation(view)
	}
	return pending, nil
}

func (s *ConversationServiceImpl) appendAndApply(ctx context.Context, e event.Event, expectedSeq uint64) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %v", primary.ErrValidation, err)
	}
	if _, err := s.projection.CommitEvent(ctx, s.store, e, expectedSeq); err != nil {
		if errors.Is(err, secondary.ErrSequenceConflict) {
			return fmt.Errorf("%w: conversation %s changed concurrently", primary.ErrConflict, e.ConversationID)
		}
		return fmt.Errorf("%w: %v", primary.ErrPersistence, err)
	}
	return nil
}

func (s *ConversationServiceImpl) wake() {
	if s.waker != nil {
		s.waker.Notify()
	}
}

func viewToConversation(view conversationView) *primary.Conversation {
	c := &primary.Conversation{
		ID:          view.ID,
		State:       string(view.State),
		AssigneeID:  view.AssigneeID,
		ClientPhone: view.ClientPhone,
		LastMessage: view.LastMessage,
		CreatedAt:   view.CreatedAt.Format(time.RFC3339),
	}
	if !view.ClosedAt.IsZero() {
		c.ClosedAt = view.ClosedAt.Format(time.RFC3339)
	}
	return c
}

// isAncestor reports whether parentID appears in the transitive chain of
// superiors of childID. An empty child has no superiors.
func isAncestor(ctx context.Context, hierarchy secondary.HierarchyRepository, parentID, childID string) (bool, error) {
	if childID == "" || parentID == "" {
		return false, nil
	}
	ancestors, err := hierarchy.Ancestors(ctx, childID)
	if err != nil {
		return false, err
	}
	for _, id := range ancestors {
		if id == parentID {
			return true, nil
		}
	}
	return false, nil
}

// Ensure ConversationServiceImpl implements the interface
var _ primary.ConversationService = (*ConversationServiceImpl)(nil)
