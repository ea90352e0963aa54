package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/dispatch/internal/core/identity"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// AgentServiceImpl implements the AgentService interface. It manages the
// reference data the engine needs about agents; authentication and account
// lifecycle live in the external identity service.
type AgentServiceImpl struct {
	agentRepo     secondary.AgentRepository
	hierarchyRepo secondary.HierarchyRepository
	projection    *Projection
	now           func() time.Time
}

// NewAgentService creates a new AgentService with injected dependencies.
func NewAgentService(
	agentRepo secondary.AgentRepository,
	hierarchyRepo secondary.HierarchyRepository,
	projection *Projection,
) *AgentServiceImpl {
	return &AgentServiceImpl{
		agentRepo:     agentRepo,
		hierarchyRepo: hierarchyRepo,
		projection:    projection,
		now:           time.Now,
	}
}

// RegisterAgent creates an agent with a role from the closed set. New
// agents start OFFLINE.
func (s *AgentServiceImpl) RegisterAgent(ctx context.Context, req primary.RegisterAgentRequest) error {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return fmt.Errorf("%w: %v", primary.ErrValidation, err)
	}
	if req.ID == "" {
		return fmt.Errorf("%w: agent id is required", primary.ErrValidation)
	}

	record := &secondary.AgentRecord{
		ID:        req.ID,
		FullName:  req.FullName,
		Role:      string(role),
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.agentRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("%w: create agent: %v", primary.ErrPersistence, err)
	}
	return s.projection.RegisterAgent(record)
}

// SetHierarchy records a parent->child reporting relation.
func (s *AgentServiceImpl) SetHierarchy(ctx context.Context, parentID, childID string) error {
	if _, ok := s.projection.Agent(parentID); !ok {
		return fmt.Errorf("%w: agent %s", primary.ErrNotFound, parentID)
	}
	if _, ok := s.projection.Agent(childID); !ok {
		return fmt.Errorf("%w: agent %s", primary.ErrNotFound, childID)
	}
	if parentID == childID {
		return fmt.Errorf("%w: agent cannot supervise themselves", primary.ErrValidation)
	}
	if err := s.hierarchyRepo.SetParent(ctx, parentID, childID); err != nil {
		return fmt.Errorf("%w: set hierarchy: %v", primary.ErrPersistence, err)
	}
	return nil
}

// GetAgent returns one agent with projected presence and load.
func (s *AgentServiceImpl) GetAgent(ctx context.Context, agentID string) (*primary.Agent, error) {
	record, err := s.agentRepo.GetByID(ctx, agentID)
	if err != nil || record == nil {
		return nil, fmt.Errorf("%w: agent %s", primary.ErrNotFound, agentID)
	}
	return s.toAgent(record), nil
}

// ListAgents returns all registered agents with projected presence and
// load.
func (s *AgentServiceImpl) ListAgents(ctx context.Context) ([]*primary.Agent, error) {
	records, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	agents := make([]*primary.Agent, len(records))
	for i, r := range records {
		agents[i] = s.toAgent(r)
	}
	return agents, nil
}

// ListTeam returns every agent transitively reporting to the supervisor,
// with projected presence and load.
func (s *AgentServiceImpl) ListTeam(ctx context.Context, supervisorID string) ([]*primary.Agent, error) {
	if _, ok := s.projection.Agent(supervisorID); !ok {
		return nil, fmt.Errorf("%w: agent %s", primary.ErrNotFound, supervisorID)
	}
	ids, err := s.hierarchyRepo.Descendants(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	team := make([]*primary.Agent, 0, len(ids))
	for _, id := range ids {
		record, err := s.agentRepo.GetByID(ctx, id)
		if err != nil || record == nil {
			// Hierarchy rows reference agents by foreign key; a miss
			// here means the row vanished mid-read. Skip it.
			continue
		}
		team = append(team, s.toAgent(record))
	}
	return team, nil
}

func (s *AgentServiceImpl) toAgent(r *secondary.AgentRecord) *primary.Agent {
	agent := &primary.Agent{
		ID:       r.ID,
		FullName: r.FullName,
		Role:     r.Role,
		Presence: string(identity.PresenceOffline),
	}
	if projected, ok := s.projection.Agent(r.ID); ok {
		agent.Presence = string(projected.Presence)
		agent.Load = s.projection.Load(r.ID)
	}
	return agent
}

// Ensure AgentServiceImpl implements the interface
var _ primary.AgentService = (*AgentServiceImpl)(nil)
