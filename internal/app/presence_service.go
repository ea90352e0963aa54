package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/core/identity"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// PresenceServiceImpl implements the PresenceService interface.
type PresenceServiceImpl struct {
	store      secondary.EventStore
	projection *Projection
	waker      Waker
	now        func() time.Time
}

// NewPresenceService creates a new PresenceService with injected
// dependencies. waker may be nil when no background scheduler runs.
func NewPresenceService(store secondary.EventStore, projection *Projection, waker Waker) *PresenceServiceImpl {
	return &PresenceServiceImpl{
		store:      store,
		projection: projection,
		waker:      waker,
		now:        time.Now,
	}
}

// SetPresence records a presence change for an agent. The STATE_CHANGE
// event commits before the projection updates; an agent whose OFFLINE
// transition committed can no longer receive assignments. Open
// conversations are never auto-transferred on OFFLINE.
func (s *PresenceServiceImpl) SetPresence(ctx context.Context, agentID, state string) error {
	presence, err := identity.ParsePresence(state)
	if err != nil {
		return fmt.Errorf("%w: %v", primary.ErrValidation, err)
	}
	agent, ok := s.projection.Agent(agentID)
	if !ok {
		return fmt.Errorf("%w: agent %s", primary.ErrNotFound, agentID)
	}

	e := event.Event{
		Kind:      event.KindStateChange,
		AgentID:   agentID,
		ActorID:   agentID,
		ActorRole: agent.Role,
		Detail:    string(presence),
		CreatedAt: s.now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %v", primary.ErrValidation, err)
	}
	if _, err := s.projection.CommitEvent(ctx, s.store, e, 0); err != nil {
		return fmt.Errorf("%w: %v", primary.ErrPersistence, err)
	}

	// Coming ONLINE may make pending conversations schedulable.
	if presence == identity.PresenceOnline && s.waker != nil {
		s.waker.Notify()
	}
	return nil
}

// GetAgentLoad returns the number of OPEN conversations assigned to the
// agent.
func (s *PresenceServiceImpl) GetAgentLoad(ctx context.Context, agentID string) (int, error) {
	if _, ok := s.projection.Agent(agentID); !ok {
		return 0, fmt.Errorf("%w: agent %s", primary.ErrNotFound, agentID)
	}
	return s.projection.Load(agentID), nil
}

// GetPresence returns the agent's projected presence state.
func (s *PresenceServiceImpl) GetPresence(ctx context.Context, agentID string) (string, error) {
	agent, ok := s.projection.Agent(agentID)
	if !ok {
		return "", fmt.Errorf("%w: agent %s", primary.ErrNotFound, agentID)
	}
	return string(agent.Presence), nil
}

// Ensure PresenceServiceImpl implements the interface
var _ primary.PresenceService = (*PresenceServiceImpl)(nil)
