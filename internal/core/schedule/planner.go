// Package schedule contains the pure agent-selection logic for the
// assignment scheduler. This is part of the Functional Core - all inputs
// are pre-fetched by the caller, no I/O here.
package schedule

import (
	"sort"
	"time"

	"github.com/example/dispatch/internal/core/capacity"
	"github.com/example/dispatch/internal/core/identity"
)

// Candidate is an agent considered for assignment.
type Candidate struct {
	capacity.AgentView
	// LastAssigned is the timestamp of the agent's most recent ASSIGNED
	// event. Zero when the agent has never been assigned anything.
	LastAssigned time.Time
}

// Rank orders eligible AGENT-role candidates for assignment: ascending
// open-conversation load first (fairness to customers waiting longest goes
// through the emptiest agent), then oldest last-assignment (approximating
// round-robin among equally loaded agents), then agent id for determinism.
// Agents failing the capacity policy or not holding the AGENT role are
// dropped.
func Rank(candidates []Candidate, maxPerAgent int) []Candidate {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Role != identity.RoleAgent {
			continue
		}
		if !capacity.CanAccept(c.AgentView, maxPerAgent) {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Load != eligible[j].Load {
			return eligible[i].Load < eligible[j].Load
		}
		if !eligible[i].LastAssigned.Equal(eligible[j].LastAssigned) {
			return eligible[i].LastAssigned.Before(eligible[j].LastAssigned)
		}
		return eligible[i].ID < eligible[j].ID
	})

	return eligible
}

// Pick returns the best eligible candidate, or false when no agent can
// take the conversation. An empty result is the expected steady state when
// everyone is busy or away, not an error.
func Pick(candidates []Candidate, maxPerAgent int) (Candidate, bool) {
	ranked := Rank(candidates, maxPerAgent)
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	return ranked[0], true
}
