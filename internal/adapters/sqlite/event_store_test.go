package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/dispatch/internal/adapters/sqlite"
	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/core/identity"
	"github.com/example/dispatch/internal/ports/secondary"
)

func testEvent(conversationID string) event.Event {
	return event.Event{
		Kind:           event.KindAssigned,
		ConversationID: conversationID,
		AgentID:        "ana.agent",
		ActorID:        "scheduler",
		ActorRole:      identity.RoleAdmin,
		CreatedAt:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestEventStoreAppendAssignsIncreasingSeq(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	store := sqlite.NewEventStore(testDB)
	seedConversation(t, testDB, "conv-001")
	seedConversation(t, testDB, "conv-002")

	first, err := store.Append(ctx, testEvent("conv-001"), 0)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	second, err := store.Append(ctx, testEvent("conv-002"), 0)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if second <= first {
		t.Errorf("sequences not increasing: %d then %d", first, second)
	}
}

func TestEventStoreAppendSequenceConflict(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	store := sqlite.NewEventStore(testDB)
	seedConversation(t, testDB, "conv-001")

	seq, err := store.Append(ctx, testEvent("conv-001"), 0)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Stale expectation loses; nothing is written.
	if _, err := store.Append(ctx, testEvent("conv-001"), 0); !errors.Is(err, secondary.ErrSequenceConflict) {
		t.Fatalf("Append() with stale seq error = %v, want ErrSequenceConflict", err)
	}
	events, err := store.ReadFrom(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("events after lost race = %d, want 1", len(events))
	}

	// The current expectation wins.
	e := testEvent("conv-001")
	e.Kind = event.KindTransferred
	e.FromAgentID = "ana.agent"
	e.AgentID = "luis.agent"
	if _, err := store.Append(ctx, e, seq); err != nil {
		t.Fatalf("Append() with fresh seq error = %v", err)
	}
}

func TestEventStoreUserEventsSkipSequenceCheck(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	store := sqlite.NewEventStore(testDB)

	e := event.Event{
		Kind:      event.KindStateChange,
		AgentID:   "ana.agent",
		ActorID:   "ana.agent",
		Detail:    "ONLINE",
		CreatedAt: time.Now().UTC(),
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, e, 0); err != nil {
			t.Fatalf("Append() user event error = %v", err)
		}
	}
}

func TestEventStoreReadFromRoundTrips(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	store := sqlite.NewEventStore(testDB)
	seedConversation(t, testDB, "conv-001")

	want := testEvent("conv-001")
	want.Detail = "hello"
	seq, err := store.Append(ctx, want, 0)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	events, err := store.ReadFrom(ctx, 0)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("ReadFrom() returned %d events, want 1", len(events))
	}
	got := events[0]
	if got.Seq != seq {
		t.Errorf("seq = %d, want %d", got.Seq, seq)
	}
	if got.Kind != want.Kind || got.ConversationID != want.ConversationID ||
		got.AgentID != want.AgentID || got.ActorID != want.ActorID ||
		got.ActorRole != want.ActorRole || got.Detail != want.Detail {
		t.Errorf("event = %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestEventStoreReadFromResumesAfterSeq(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	store := sqlite.NewEventStore(testDB)
	seedConversation(t, testDB, "conv-001")
	seedConversation(t, testDB, "conv-002")

	first, err := store.Append(ctx, testEvent("conv-001"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Append(ctx, testEvent("conv-002"), 0); err != nil {
		t.Fatal(err)
	}

	events, err := store.ReadFrom(ctx, first)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if len(events) != 1 || events[0].ConversationID != "conv-002" {
		t.Errorf("ReadFrom(%d) = %v, want only conv-002", first, events)
	}
}

func TestEventStoreRejectsUnknownKind(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	store := sqlite.NewEventStore(testDB)

	e := testEvent("conv-001")
	e.Kind = event.Kind("BOGUS")
	if _, err := store.Append(ctx, e, 0); err == nil {
		t.Error("Append() accepted an unknown kind, want CHECK constraint failure")
	}
}

func TestEventStoreLastSeq(t *testing.T) {
	ctx := context.Background()
	testDB := setupTestDB(t)
	store := sqlite.NewEventStore(testDB)
	seedConversation(t, testDB, "conv-001")

	last, err := store.LastSeq(ctx, "conv-001")
	if err != nil {
		t.Fatal(err)
	}
	if last != 0 {
		t.Errorf("LastSeq() with no events = %d, want 0", last)
	}

	seq, err := store.Append(ctx, testEvent("conv-001"), 0)
	if err != nil {
		t.Fatal(err)
	}
	last, err = store.LastSeq(ctx, "conv-001")
	if err != nil {
		t.Fatal(err)
	}
	if last != seq {
		t.Errorf("LastSeq() = %d, want %d", last, seq)
	}
}
