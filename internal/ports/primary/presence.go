package primary

import "context"

// PresenceService defines the primary port for agent presence and load.
type PresenceService interface {
	// SetPresence records a presence change for an agent. Going OFFLINE
	// never auto-transfers open conversations; it only blocks new ones.
	SetPresence(ctx context.Context, agentID, state string) error

	// GetAgentLoad returns the number of OPEN conversations currently
	// assigned to the agent.
	GetAgentLoad(ctx context.Context, agentID string) (int, error)

	// GetPresence returns the agent's projected presence state.
	GetPresence(ctx context.Context, agentID string) (string, error)
}

// AgentService defines the primary port for agent reference data. Identity
// and authentication live outside the engine; this manages only what the
// scheduler and authority checks need.
type AgentService interface {
	// RegisterAgent creates an agent with a role from the closed set.
	RegisterAgent(ctx context.Context, req RegisterAgentRequest) error

	// SetHierarchy records a parent->child reporting relation
	// (supervisor->agent, principal->supervisor).
	SetHierarchy(ctx context.Context, parentID, childID string) error

	// GetAgent returns one agent with projected presence and load.
	GetAgent(ctx context.Context, agentID string) (*Agent, error)

	// ListAgents returns all registered agents with projected presence
	// and load.
	ListAgents(ctx context.Context) ([]*Agent, error)

	// ListTeam returns every agent transitively reporting to the
	// supervisor, with projected presence and load.
	ListTeam(ctx context.Context, supervisorID string) ([]*Agent, error)
}

// RegisterAgentRequest carries the data for a new agent.
type RegisterAgentRequest struct {
	ID       string
	FullName string
	Role     string
}

// Agent is the projected agent view at the port boundary.
type Agent struct {
	ID       string
	FullName string
	Role     string
	Presence string
	Load     int
}
