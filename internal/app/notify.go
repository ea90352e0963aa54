package app

import (
	"context"
	"log"

	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/core/identity"
	"github.com/example/dispatch/internal/ports/secondary"
)

// publishAssignment pushes a committed assignment change through the
// notifier. Recipients are the new assignee, their transitive superiors,
// every PRINCIPAL, and the previous assignee. Failures are logged, never
// propagated: the event log already holds the truth.
func publishAssignment(
	ctx context.Context,
	notifier secondary.Notifier,
	agents secondary.AgentRepository,
	hierarchy secondary.HierarchyRepository,
	e event.Event,
	previousAgent string,
) {
	if notifier == nil {
		return
	}

	recipients, err := assignmentRecipients(ctx, agents, hierarchy, e.AgentID, previousAgent)
	if err != nil {
		log.Printf("notify %s %s: resolve recipients: %v", e.Kind, e.ConversationID, err)
		return
	}

	n := secondary.AssignmentNotification{
		ConversationID: e.ConversationID,
		Kind:           string(e.Kind),
		AgentID:        e.AgentID,
		PreviousAgent:  previousAgent,
		Recipients:     recipients,
		Seq:            e.Seq,
	}
	if err := notifier.NotifyAssignment(ctx, n); err != nil {
		log.Printf("notify %s %s: %v", e.Kind, e.ConversationID, err)
	}
}

func assignmentRecipients(
	ctx context.Context,
	agents secondary.AgentRepository,
	hierarchy secondary.HierarchyRepository,
	agentID, previousAgent string,
) ([]string, error) {
	seen := make(map[string]bool)
	var recipients []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			recipients = append(recipients, id)
		}
	}

	add(agentID)
	ancestors, err := hierarchy.Ancestors(ctx, agentID)
	if err != nil {
		return nil, err
	}
	for _, id := range ancestors {
		add(id)
	}

	records, err := agents.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Role == string(identity.RolePrincipal) {
			add(r.ID)
		}
	}

	add(previousAgent)
	return recipients, nil
}
