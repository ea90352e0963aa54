package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/dispatch/internal/adapters/sqlite"
	"github.com/example/dispatch/internal/ports/secondary"
)

func TestAgentRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	repo := sqlite.NewAgentRepository(testDB)

	err := repo.Create(ctx, &secondary.AgentRecord{
		ID:       "ana.agent",
		FullName: "Ana Torres",
		Role:     "AGENT",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "ana.agent")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FullName != "Ana Torres" || got.Role != "AGENT" {
		t.Errorf("record = %+v, want Ana Torres / AGENT", got)
	}
	if got.CreatedAt == "" {
		t.Error("CreatedAt not populated")
	}
}

func TestAgentRepositoryGetByIDNotFound(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewAgentRepository(testDB)

	if _, err := repo.GetByID(context.Background(), "ghost"); err == nil {
		t.Error("GetByID() error = nil, want not-found error")
	}
}

func TestAgentRepositoryCreateRejectsUnknownRole(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewAgentRepository(testDB)

	err := repo.Create(context.Background(), &secondary.AgentRecord{
		ID:   "x",
		Role: "MANAGER",
	})
	if err == nil {
		t.Error("Create() accepted an unknown role, want CHECK constraint failure")
	}
}

func TestAgentRepositoryCreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	repo := sqlite.NewAgentRepository(testDB)
	seedAgent(t, testDB, "ana.agent", "AGENT")

	err := repo.Create(ctx, &secondary.AgentRecord{ID: "ana.agent", Role: "AGENT"})
	if err == nil {
		t.Error("Create() accepted a duplicate id, want error")
	}
}

func TestAgentRepositoryListOrderedByID(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	repo := sqlite.NewAgentRepository(testDB)
	seedAgent(t, testDB, "luis.agent", "AGENT")
	seedAgent(t, testDB, "ana.agent", "AGENT")

	agents, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(agents) != 2 || agents[0].ID != "ana.agent" || agents[1].ID != "luis.agent" {
		t.Errorf("List() = %v, want ana.agent then luis.agent", agents)
	}
}
