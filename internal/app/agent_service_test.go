package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/dispatch/internal/ports/primary"
)

func TestRegisterAgent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	err := e.agents.RegisterAgent(ctx, primary.RegisterAgentRequest{
		ID:       "ana.agent",
		FullName: "Ana Torres",
		Role:     "AGENT",
	})
	if err != nil {
		t.Fatalf("RegisterAgent() error = %v", err)
	}

	record, err := e.agentRepo.GetByID(ctx, "ana.agent")
	if err != nil || record == nil {
		t.Fatalf("agent row missing: %v", err)
	}
	if record.Role != "AGENT" || record.FullName != "Ana Torres" {
		t.Errorf("record = %+v, want AGENT Ana Torres", record)
	}
	if got, _ := e.presence.GetPresence(ctx, "ana.agent"); got != "OFFLINE" {
		t.Errorf("new agent presence = %s, want OFFLINE", got)
	}
}

func TestRegisterAgentValidation(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	tests := []struct {
		name string
		req  primary.RegisterAgentRequest
	}{
		{name: "unknown role", req: primary.RegisterAgentRequest{ID: "x", Role: "MANAGER"}},
		{name: "missing id", req: primary.RegisterAgentRequest{Role: "AGENT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.agents.RegisterAgent(ctx, tt.req)
			if !errors.Is(err, primary.ErrValidation) {
				t.Errorf("RegisterAgent() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSetHierarchy(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.registerAgent(t, "carlos.super", "SUPERVISOR")
	e.registerAgent(t, "ana.agent", "AGENT")

	if err := e.agents.SetHierarchy(ctx, "carlos.super", "ana.agent"); err != nil {
		t.Fatalf("SetHierarchy() error = %v", err)
	}
	ancestors, err := e.hierarchy.Ancestors(ctx, "ana.agent")
	if err != nil {
		t.Fatal(err)
	}
	if len(ancestors) != 1 || ancestors[0] != "carlos.super" {
		t.Errorf("ancestors = %v, want [carlos.super]", ancestors)
	}

	if err := e.agents.SetHierarchy(ctx, "carlos.super", "ghost"); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("SetHierarchy(unknown child) error = %v, want ErrNotFound", err)
	}
	if err := e.agents.SetHierarchy(ctx, "ana.agent", "ana.agent"); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("SetHierarchy(self) error = %v, want ErrValidation", err)
	}
}

func TestGetAgent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.onlineAgent(t, "ana.agent", "AGENT")

	e.submit(t)
	if _, err := e.scheduler.Pass(ctx); err != nil {
		t.Fatal(err)
	}

	agent, err := e.agents.GetAgent(ctx, "ana.agent")
	if err != nil {
		t.Fatalf("GetAgent() error = %v", err)
	}
	if agent.Presence != "ONLINE" || agent.Load != 1 {
		t.Errorf("ana.agent = (%s, %d), want (ONLINE, 1)", agent.Presence, agent.Load)
	}

	if _, err := e.agents.GetAgent(ctx, "ghost"); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("GetAgent(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListTeamWalksTransitiveReports(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.registerAgent(t, "maria.principal", "PRINCIPAL")
	e.registerAgent(t, "carlos.super", "SUPERVISOR")
	e.onlineAgent(t, "ana.agent", "AGENT")
	e.registerAgent(t, "luis.agent", "AGENT")
	e.registerAgent(t, "other.agent", "AGENT")
	for parent, child := range map[string]string{
		"maria.principal": "carlos.super",
		"carlos.super":    "ana.agent",
	} {
		if err := e.agents.SetHierarchy(ctx, parent, child); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.agents.SetHierarchy(ctx, "carlos.super", "luis.agent"); err != nil {
		t.Fatal(err)
	}

	team, err := e.agents.ListTeam(ctx, "maria.principal")
	if err != nil {
		t.Fatalf("ListTeam() error = %v", err)
	}
	byID := make(map[string]*primary.Agent)
	for _, a := range team {
		byID[a.ID] = a
	}
	if len(team) != 3 {
		t.Fatalf("ListTeam() returned %d, want 3 (supervisor and both agents)", len(team))
	}
	for _, id := range []string{"carlos.super", "ana.agent", "luis.agent"} {
		if byID[id] == nil {
			t.Errorf("team missing %s", id)
		}
	}
	if byID["other.agent"] != nil {
		t.Error("other.agent is outside the chain and must not appear")
	}
	if a := byID["ana.agent"]; a != nil && a.Presence != "ONLINE" {
		t.Errorf("ana.agent presence = %s, want ONLINE", a.Presence)
	}

	if _, err := e.agents.ListTeam(ctx, "ghost"); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("ListTeam(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListAgentsMergesProjectedState(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	e.onlineAgent(t, "ana.agent", "AGENT")
	e.registerAgent(t, "luis.agent", "AGENT")

	e.submit(t)
	if _, err := e.scheduler.Pass(ctx); err != nil {
		t.Fatal(err)
	}

	agents, err := e.agents.ListAgents(ctx)
	if err != nil {
		t.Fatalf("ListAgents() error = %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("ListAgents() returned %d, want 2", len(agents))
	}
	byID := make(map[string]*primary.Agent)
	for _, a := range agents {
		byID[a.ID] = a
	}
	if a := byID["ana.agent"]; a.Presence != "ONLINE" || a.Load != 1 {
		t.Errorf("ana.agent = (%s, %d), want (ONLINE, 1)", a.Presence, a.Load)
	}
	if a := byID["luis.agent"]; a.Presence != "OFFLINE" || a.Load != 0 {
		t.Errorf("luis.agent = (%s, %d), want (OFFLINE, 0)", a.Presence, a.Load)
	}
}
