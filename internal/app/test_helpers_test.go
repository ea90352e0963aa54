package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// Ensure the mocks implement the interfaces
var (
	_ secondary.EventStore             = (*mockEventStore)(nil)
	_ secondary.AgentRepository        = (*mockAgentRepo)(nil)
	_ secondary.ConversationRepository = (*mockConversationRepo)(nil)
	_ secondary.HierarchyRepository    = (*mockHierarchyRepo)(nil)
	_ secondary.Notifier               = (*mockNotifier)(nil)
	_ Waker                            = (*mockWaker)(nil)
)

// mockEventStore implements secondary.EventStore in memory with the same
// per-conversation compare-and-append semantics as the SQLite store.
type mockEventStore struct {
	mu        sync.Mutex
	events    []event.Event
	appendErr error
}

func (m *mockEventStore) Append(ctx context.Context, e event.Event, expectedSeq uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	if e.ConversationID != "" && m.lastSeqLocked(e.ConversationID) != expectedSeq {
		return 0, secondary.ErrSequenceConflict
	}
	e.Seq = uint64(len(m.events)) + 1
	m.events = append(m.events, e)
	return e.Seq, nil
}

func (m *mockEventStore) ReadFrom(ctx context.Context, after uint64) ([]event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []event.Event
	for _, e := range m.events {
		if e.Seq > after {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventStore) LastSeq(ctx context.Context, conversationID string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSeqLocked(conversationID), nil
}

func (m *mockEventStore) lastSeqLocked(conversationID string) uint64 {
	var last uint64
	for _, e := range m.events {
		if e.ConversationID == conversationID && e.Seq > last {
			last = e.Seq
		}
	}
	return last
}

// kinds returns the committed kinds for one conversation, in order.
func (m *mockEventStore) kinds(conversationID string) []event.Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []event.Kind
	for _, e := range m.events {
		if e.ConversationID == conversationID {
			out = append(out, e.Kind)
		}
	}
	return out
}

// mockAgentRepo implements secondary.AgentRepository in memory.
type mockAgentRepo struct {
	mu      sync.Mutex
	records []*secondary.AgentRecord
}

func (m *mockAgentRepo) Create(ctx context.Context, agent *secondary.AgentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *agent
	m.records = append(m.records, &copied)
	return nil
}

func (m *mockAgentRepo) GetByID(ctx context.Context, id string) (*secondary.AgentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockAgentRepo) List(ctx context.Context) ([]*secondary.AgentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*secondary.AgentRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// mockConversationRepo implements secondary.ConversationRepository in memory.
type mockConversationRepo struct {
	mu      sync.Mutex
	records []*secondary.ConversationRecord
}

func (m *mockConversationRepo) Create(ctx context.Context, c *secondary.ConversationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *c
	m.records = append(m.records, &copied)
	return nil
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id string) (*secondary.ConversationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockConversationRepo) List(ctx context.Context) ([]*secondary.ConversationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*secondary.ConversationRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// mockHierarchyRepo implements secondary.HierarchyRepository over a
// child->parent map.
type mockHierarchyRepo struct {
	mu      sync.Mutex
	parents map[string]string
}

func newMockHierarchyRepo() *mockHierarchyRepo {
	return &mockHierarchyRepo{parents: make(map[string]string)}
}

func (m *mockHierarchyRepo) SetParent(ctx context.Context, parentID, childID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parents[childID] = parentID
	return nil
}

func (m *mockHierarchyRepo) Ancestors(ctx context.Context, agentID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	seen := map[string]bool{agentID: true}
	for {
		parent, ok := m.parents[agentID]
		if !ok || seen[parent] {
			return out, nil
		}
		out = append(out, parent)
		seen[parent] = true
		agentID = parent
	}
}

func (m *mockHierarchyRepo) Descendants(ctx context.Context, parentID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	frontier := []string{parentID}
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		for child, parent := range m.parents {
			if parent == next {
				out = append(out, child)
				frontier = append(frontier, child)
			}
		}
	}
	return out, nil
}

// mockNotifier records published notifications.
type mockNotifier struct {
	mu            sync.Mutex
	notifications []secondary.AssignmentNotification
}

func (m *mockNotifier) NotifyAssignment(ctx context.Context, n secondary.AssignmentNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotifier) Close() error { return nil }

func (m *mockNotifier) last(t *testing.T) secondary.AssignmentNotification {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.notifications) == 0 {
		t.Fatal("no notifications published")
	}
	return m.notifications[len(m.notifications)-1]
}

// mockWaker counts scheduler wake-ups.
type mockWaker struct {
	mu    sync.Mutex
	count int
}

func (m *mockWaker) Notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
}

// fakeClock hands out strictly increasing timestamps so ordering-sensitive
// logic is deterministic under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

const testMaxPerAgent = 3

// testEngine wires every service over shared mocks and one projection.
type testEngine struct {
	store         *mockEventStore
	agentRepo     *mockAgentRepo
	convRepo      *mockConversationRepo
	hierarchy     *mockHierarchyRepo
	notifier      *mockNotifier
	projection    *Projection
	clock         *fakeClock
	scheduler     *SchedulerServiceImpl
	conversations *ConversationServiceImpl
	presence      *PresenceServiceImpl
	agents        *AgentServiceImpl
	overrides     *OverrideServiceImpl
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	e := &testEngine{
		store:      &mockEventStore{},
		agentRepo:  &mockAgentRepo{},
		convRepo:   &mockConversationRepo{},
		hierarchy:  newMockHierarchyRepo(),
		notifier:   &mockNotifier{},
		projection: NewProjection(),
		clock:      newFakeClock(),
	}

	e.scheduler = NewSchedulerService(e.store, e.agentRepo, e.hierarchy, e.notifier, e.projection, testMaxPerAgent)
	e.scheduler.now = e.clock.Now
	e.conversations = NewConversationService(e.convRepo, e.hierarchy, e.store, e.projection, e.scheduler)
	e.conversations.now = e.clock.Now
	e.presence = NewPresenceService(e.store, e.projection, e.scheduler)
	e.presence.now = e.clock.Now
	e.agents = NewAgentService(e.agentRepo, e.hierarchy, e.projection)
	e.agents.now = e.clock.Now
	e.overrides = NewOverrideService(e.store, e.agentRepo, e.hierarchy, e.notifier, e.projection, testMaxPerAgent, e.scheduler)
	e.overrides.now = e.clock.Now

	return e
}

// registerAgent registers an agent and fails the test on error.
func (e *testEngine) registerAgent(t *testing.T, id, role string) {
	t.Helper()
	err := e.agents.RegisterAgent(context.Background(), primary.RegisterAgentRequest{
		ID:       id,
		FullName: id,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("failed to register agent %s: %v", id, err)
	}
}

// onlineAgent registers an agent and brings them ONLINE.
func (e *testEngine) onlineAgent(t *testing.T, id, role string) {
	t.Helper()
	e.registerAgent(t, id, role)
	if err := e.presence.SetPresence(context.Background(), id, "ONLINE"); err != nil {
		t.Fatalf("failed to bring %s online: %v", id, err)
	}
}

// submit registers a conversation and returns its id.
func (e *testEngine) submit(t *testing.T) string {
	t.Helper()
	id, err := e.conversations.SubmitConversation(context.Background(), primary.SubmitConversationRequest{
		ClientPhone: "+50377001122",
		LastMessage: "hola",
	})
	if err != nil {
		t.Fatalf("failed to submit conversation: %v", err)
	}
	return id
}

// conversationState returns the projected state and assignee.
func (e *testEngine) conversationState(t *testing.T, id string) (string, string) {
	t.Helper()
	c, err := e.conversations.GetConversation(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to get conversation %s: %v", id, err)
	}
	return c.State, c.AssigneeID
}
