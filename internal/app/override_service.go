package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/dispatch/internal/core/authority"
	"github.com/example/dispatch/internal/core/capacity"
	"github.com/example/dispatch/internal/core/conversation"
	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// OverrideServiceImpl implements the OverrideService interface: validated
// supervisor-initiated transfers and interventions that bypass the normal
// queue but still commit through the event log.
type OverrideServiceImpl struct {
	store         secondary.EventStore
	agentRepo     secondary.AgentRepository
	hierarchyRepo secondary.HierarchyRepository
	notifier      secondary.Notifier
	projection    *Projection
	maxPerAgent   int
	waker         Waker
	now           func() time.Time
}

// NewOverrideService creates a new OverrideService with injected
// dependencies. notifier and waker may be nil.
func NewOverrideService(
	store secondary.EventStore,
	agentRepo secondary.AgentRepository,
	hierarchyRepo secondary.HierarchyRepository,
	notifier secondary.Notifier,
	projection *Projection,
	maxPerAgent int,
	waker Waker,
) *OverrideServiceImpl {
	return &OverrideServiceImpl{
		store:         store,
		agentRepo:     agentRepo,
		hierarchyRepo: hierarchyRepo,
		notifier:      notifier,
		projection:    projection,
		maxPerAgent:   maxPerAgent,
		waker:         waker,
		now:           time.Now,
	}
}

// RequestTransfer hands an OPEN conversation to another agent.
func (s *OverrideServiceImpl) RequestTransfer(ctx context.Context, conversationID, toAgentID, actorID string) error {
	view, ok := s.projection.Conversation(conversationID)
	if !ok {
		return fmt.Errorf("%w: conversation %s", primary.ErrNotFound, conversationID)
	}
	actor, ok := s.projection.Agent(actorID)
	if !ok {
		return fmt.Errorf("%w: agent %s", primary.ErrNotFound, actorID)
	}
	target, ok := s.projection.Agent(toAgentID)
	if !ok {
		return fmt.Errorf("%w: agent %s", primary.ErrNotFound, toAgentID)
	}

	guard := conversation.CanTransition(conversation.TransitionContext{
		ConversationID: view.ID,
		State:          view.State,
		AssigneeID:     view.AssigneeID,
	}, conversation.TransitionTransfer)
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrInvalidTransition, guard.Reason)
	}

	responsibleForFrom, err := isAncestor(ctx, s.hierarchyRepo, actorID, view.AssigneeID)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	responsibleForTo, err := isAncestor(ctx, s.hierarchyRepo, actorID, toAgentID)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	authGuard := authority.CanTransfer(authority.TransferContext{
		ConversationID:     view.ID,
		ActorID:            actorID,
		ActorRole:          actor.Role,
		ResponsibleForFrom: responsibleForFrom,
		ResponsibleForTo:   responsibleForTo,
	})
	if !authGuard.Allowed {
		log.Printf("audit: denied transfer of %s by %s (%s): %s",
			view.ID, actorID, actor.Role, authGuard.Reason)
		return fmt.Errorf("%w: %s", primary.ErrUnauthorized, authGuard.Reason)
	}

	if !capacity.CanAccept(capacity.AgentView{
		ID:       target.ID,
		Role:     target.Role,
		Presence: target.Presence,
		Load:     s.projection.Load(target.ID),
	}, s.maxPerAgent) {
		return fmt.Errorf("%w: agent %s cannot accept conversation %s",
			primary.ErrTargetUnavailable, toAgentID, view.ID)
	}

	e := event.Event{
		Kind:           event.KindTransferred,
		ConversationID: view.ID,
		AgentID:        toAgentID,
		FromAgentID:    view.AssigneeID,
		ActorID:        actorID,
		ActorRole:      actor.Role,
		CreatedAt:      s.now().UTC(),
	}
	committed, err := s.appendAndApply(ctx, e, view.LastSeq)
	if err != nil {
		return err
	}
	s.appendUserLog(ctx, event.Event{
		Kind:      event.KindTransfer,
		AgentID:   toAgentID,
		ActorID:   actorID,
		ActorRole: actor.Role,
		Detail:    view.ID,
		CreatedAt: s.now().UTC(),
	})
	publishAssignment(ctx, s.notifier, s.agentRepo, s.hierarchyRepo, committed, view.AssigneeID)
	s.wakeScheduler()
	return nil
}

// RequestIntervention reassigns the conversation to the supervisor
// themselves. Capacity is bypassed; the distinct INTERVENTION kind keeps
// the takeover visible to audit.
func (s *OverrideServiceImpl) RequestIntervention(ctx context.Context, conversationID, supervisorID string) error {
	view, ok := s.projection.Conversation(conversationID)
	if !ok {
		return fmt.Errorf("%w: conversation %s", primary.ErrNotFound, conversationID)
	}
	supervisor, ok := s.projection.Agent(supervisorID)
	if !ok {
		return fmt.Errorf("%w: agent %s", primary.ErrNotFound, supervisorID)
	}

	guard := conversation.CanTransition(conversation.TransitionContext{
		ConversationID: view.ID,
		State:          view.State,
		AssigneeID:     view.AssigneeID,
	}, conversation.TransitionIntervene)
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrInvalidTransition, guard.Reason)
	}

	responsible, err := isAncestor(ctx, s.hierarchyRepo, supervisorID, view.AssigneeID)
	if err != nil {
		return fmt.Errorf("intervention: %w", err)
	}
	authGuard := authority.CanIntervene(authority.InterventionContext{
		ConversationID:         view.ID,
		SupervisorID:           supervisorID,
		SupervisorRole:         supervisor.Role,
		ResponsibleForAssignee: responsible,
		HasAssignee:            view.AssigneeID != "",
	})
	if !authGuard.Allowed {
		log.Printf("audit: denied intervention on %s by %s (%s): %s",
			view.ID, supervisorID, supervisor.Role, authGuard.Reason)
		return fmt.Errorf("%w: %s", primary.ErrUnauthorized, authGuard.Reason)
	}

	e := event.Event{
		Kind:           event.KindIntervention,
		ConversationID: view.ID,
		AgentID:        supervisorID,
		FromAgentID:    view.AssigneeID,
		ActorID:        supervisorID,
		ActorRole:      supervisor.Role,
		CreatedAt:      s.now().UTC(),
	}
	committed, err := s.appendAndApply(ctx, e, view.LastSeq)
	if err != nil {
		return err
	}
	publishAssignment(ctx, s.notifier, s.agentRepo, s.hierarchyRepo, committed, view.AssigneeID)
	s.wakeScheduler()
	return nil
}

func (s *OverrideServiceImpl) appendAndApply(ctx context.Context, e event.Event, expectedSeq uint64) (event.Event, error) {
	if err := e.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", primary.ErrValidation, err)
	}
	committed, err := s.projection.CommitEvent(ctx, s.store, e, expectedSeq)
	if err != nil {
		if errors.Is(err, secondary.ErrSequenceConflict) {
			return event.Event{}, fmt.Errorf("%w: conversation %s changed concurrently", primary.ErrConflict, e.ConversationID)
		}
		return event.Event{}, fmt.Errorf("%w: %v", primary.ErrPersistence, err)
	}
	return committed, nil
}

// appendUserLog writes the companion user-log fact for an override. The
// assignment event already committed, so a failure here only logs.
func (s *OverrideServiceImpl) appendUserLog(ctx context.Context, e event.Event) {
	if _, err := s.projection.CommitEvent(ctx, s.store, e, 0); err != nil {
		log.Printf("append %s user log: %v", e.Kind, err)
	}
}

func (s *OverrideServiceImpl) wakeScheduler() {
	if s.waker != nil {
		s.waker.Notify()
	}
}

// Ensure OverrideServiceImpl implements the interface
var _ primary.OverrideService = (*OverrideServiceImpl)(nil)
