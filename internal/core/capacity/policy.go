// Package capacity contains the pure capacity policy deciding whether an
// agent may receive one more assignment. This is part of the Functional
// Core - no I/O, only pure functions.
package capacity

import "github.com/example/dispatch/internal/core/identity"

// AgentView is the pre-fetched snapshot the policy evaluates. Load is the
// number of OPEN conversations currently assigned to the agent.
type AgentView struct {
	ID       string
	Role     identity.Role
	Presence identity.Presence
	Load     int
}

// CanAccept reports whether the agent may receive one more direct
// assignment or transfer. AGENT-role users are capped at maxPerAgent open
// conversations; supervisory roles are uncapped but, like everyone else,
// must be ONLINE to receive work directly. Interventions do not consult
// this policy at all.
func CanAccept(a AgentView, maxPerAgent int) bool {
	if a.Presence != identity.PresenceOnline {
		return false
	}
	if a.Role == identity.RoleAgent {
		return a.Load < maxPerAgent
	}
	return true
}
