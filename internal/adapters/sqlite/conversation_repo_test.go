package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/dispatch/internal/adapters/sqlite"
	"github.com/example/dispatch/internal/ports/secondary"
)

func TestConversationRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	repo := sqlite.NewConversationRepository(testDB)

	err := repo.Create(ctx, &secondary.ConversationRecord{
		ID:          "conv-001",
		ClientPhone: "+50377001122",
		LastMessage: "hola",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "conv-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ClientPhone != "+50377001122" || got.LastMessage != "hola" {
		t.Errorf("record = %+v", got)
	}
	if got.CreatedAt == "" {
		t.Error("CreatedAt not populated")
	}
}

func TestConversationRepositoryGetByIDNotFound(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewConversationRepository(testDB)

	if _, err := repo.GetByID(context.Background(), "missing"); err == nil {
		t.Error("GetByID() error = nil, want not-found error")
	}
}

func TestConversationRepositoryListOldestFirst(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	repo := sqlite.NewConversationRepository(testDB)

	if _, err := testDB.Exec(
		"INSERT INTO conversations (id, created_at) VALUES ('conv-new', '2026-03-10T10:00:00Z'), ('conv-old', '2026-03-10T09:00:00Z')",
	); err != nil {
		t.Fatal(err)
	}

	conversations, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(conversations) != 2 || conversations[0].ID != "conv-old" || conversations[1].ID != "conv-new" {
		t.Errorf("List() order wrong: %v", conversations)
	}
}
