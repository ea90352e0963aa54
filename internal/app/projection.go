package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/dispatch/internal/core/capacity"
	"github.com/example/dispatch/internal/core/conversation"
	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/core/identity"
	"github.com/example/dispatch/internal/core/schedule"
	"github.com/example/dispatch/internal/ports/secondary"
)

// conversationView is the projected state of one conversation.
type conversationView struct {
	ID          string
	State       conversation.State
	AssigneeID  string
	ClientPhone string
	LastMessage string
	CreatedAt   time.Time
	ClosedAt    time.Time
	LastSeq     uint64 // sequence of the last event applied to this conversation
}

// agentProjection is the projected state of one agent. Presence and the
// last-assignment timestamp come exclusively from the event log; the rest
// is reference data.
type agentProjection struct {
	ID           string
	FullName     string
	Role         identity.Role
	Presence     identity.Presence
	LastAssigned time.Time
}

// Projection is the in-memory read model folded from the event log over
// the reference rows. It is never edited directly: services mutate only by
// appending an event and then applying it here, and a rebuild from
// sequence zero always yields the same state.
type Projection struct {
	mu            sync.RWMutex
	commitMu      sync.Mutex
	conversations map[string]*conversationView
	agents        map[string]*agentProjection
	lastSeq       uint64
}

// NewProjection returns an empty projection.
func NewProjection() *Projection {
	return &Projection{
		conversations: make(map[string]*conversationView),
		agents:        make(map[string]*agentProjection),
	}
}

// RegisterAgent adds an agent reference row. New agents start OFFLINE
// until a STATE_CHANGE event says otherwise.
func (p *Projection) RegisterAgent(record *secondary.AgentRecord) error {
	role, err := identity.ParseRole(record.Role)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agents[record.ID] = &agentProjection{
		ID:       record.ID,
		FullName: record.FullName,
		Role:     role,
		Presence: identity.PresenceOffline,
	}
	return nil
}

// RegisterConversation adds a conversation intake row in PENDING state.
func (p *Projection) RegisterConversation(record *secondary.ConversationRecord) error {
	createdAt, err := time.Parse(time.RFC3339, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("conversation %s: bad created_at: %w", record.ID, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conversations[record.ID] = &conversationView{
		ID:          record.ID,
		State:       conversation.InitialState(),
		ClientPhone: record.ClientPhone,
		LastMessage: record.LastMessage,
		CreatedAt:   createdAt,
	}
	return nil
}

// Apply folds one committed event into the projection. Events must arrive
// in sequence order.
func (p *Projection) Apply(e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applyLocked(e)
}

// CommitEvent appends one event to the store and folds it into the
// projection as a single step, returning the event with its assigned
// sequence. The commit lock serializes writers so no other producer can
// slip an append between the durable write and the fold, which would
// leave the projection behind the log and fail the fold as out of order.
// Reads never take the commit lock.
func (p *Projection) CommitEvent(ctx context.Context, store secondary.EventStore, e event.Event, expectedSeq uint64) (event.Event, error) {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()

	seq, err := store.Append(ctx, e, expectedSeq)
	if err != nil {
		return event.Event{}, err
	}
	e.Seq = seq
	if err := p.Apply(e); err != nil {
		return event.Event{}, fmt.Errorf("event %d committed but not applied: %w", seq, err)
	}
	return e, nil
}

func (p *Projection) applyLocked(e event.Event) error {
	if e.Seq <= p.lastSeq {
		return fmt.Errorf("event %d applied out of order (at %d)", e.Seq, p.lastSeq)
	}

	switch e.Kind {
	case event.KindAssigned:
		view, ok := p.conversations[e.ConversationID]
		if !ok {
			return fmt.Errorf("ASSIGNED event %d references unknown conversation %s", e.Seq, e.ConversationID)
		}
		view.State = conversation.StateOpen
		view.AssigneeID = e.AgentID
		view.LastSeq = e.Seq
		if agent, ok := p.agents[e.AgentID]; ok {
			agent.LastAssigned = e.CreatedAt
		}

	case event.KindTransferred, event.KindIntervention:
		view, ok := p.conversations[e.ConversationID]
		if !ok {
			return fmt.Errorf("%s event %d references unknown conversation %s", e.Kind, e.Seq, e.ConversationID)
		}
		view.State = conversation.StateOpen
		view.AssigneeID = e.AgentID
		view.LastSeq = e.Seq

	case event.KindEndChat:
		view, ok := p.conversations[e.ConversationID]
		if !ok {
			return fmt.Errorf("END_CHAT event %d references unknown conversation %s", e.Seq, e.ConversationID)
		}
		view.State = conversation.StateClosed
		view.ClosedAt = e.CreatedAt
		view.LastSeq = e.Seq

	case event.KindStateChange:
		agent, ok := p.agents[e.AgentID]
		if !ok {
			return fmt.Errorf("STATE_CHANGE event %d references unknown agent %s", e.Seq, e.AgentID)
		}
		presence, err := identity.ParsePresence(e.Detail)
		if err != nil {
			return fmt.Errorf("STATE_CHANGE event %d: %w", e.Seq, err)
		}
		agent.Presence = presence

	case event.KindTransfer:
		// Audit-only user log entry; no projected state changes.

	default:
		return fmt.Errorf("event %d has unknown kind %q", e.Seq, e.Kind)
	}

	p.lastSeq = e.Seq
	return nil
}

// Rebuild resets the projection and replays the full event log over the
// reference rows. Replaying any number of times yields identical state.
func (p *Projection) Rebuild(
	ctx context.Context,
	agents secondary.AgentRepository,
	conversations secondary.ConversationRepository,
	store secondary.EventStore,
) error {
	agentRecords, err := agents.List(ctx)
	if err != nil {
		return fmt.Errorf("rebuild: list agents: %w", err)
	}
	conversationRecords, err := conversations.List(ctx)
	if err != nil {
		return fmt.Errorf("rebuild: list conversations: %w", err)
	}
	events, err := store.ReadFrom(ctx, 0)
	if err != nil {
		return fmt.Errorf("rebuild: read events: %w", err)
	}

	fresh := NewProjection()
	for _, a := range agentRecords {
		if err := fresh.RegisterAgent(a); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
	}
	for _, c := range conversationRecords {
		if err := fresh.RegisterConversation(c); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
	}
	for _, e := range events {
		if err := fresh.Apply(e); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.conversations = fresh.conversations
	p.agents = fresh.agents
	p.lastSeq = fresh.lastSeq
	return nil
}

// Conversation returns a snapshot of one conversation's projected state.
func (p *Projection) Conversation(id string) (conversationView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	view, ok := p.conversations[id]
	if !ok {
		return conversationView{}, false
	}
	return *view, true
}

// Agent returns a snapshot of one agent's projected state.
func (p *Projection) Agent(id string) (agentProjection, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	agent, ok := p.agents[id]
	if !ok {
		return agentProjection{}, false
	}
	return *agent, true
}

// Load returns the number of OPEN conversations assigned to the agent.
// Derived by scanning the conversation views so it can never drift from
// the event log.
func (p *Projection) Load(agentID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadLocked(agentID)
}

func (p *Projection) loadLocked(agentID string) int {
	load := 0
	for _, view := range p.conversations {
		if view.State == conversation.StateOpen && view.AssigneeID == agentID {
			load++
		}
	}
	return load
}

// Pending returns snapshots of PENDING conversations, oldest first.
func (p *Projection) Pending() []conversationView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var pending []conversationView
	for _, view := range p.conversations {
		if view.State == conversation.StatePending {
			pending = append(pending, *view)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	return pending
}

// Candidates returns every agent as a scheduling candidate with projected
// presence, load, and last-assignment time.
func (p *Projection) Candidates() []schedule.Candidate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	candidates := make([]schedule.Candidate, 0, len(p.agents))
	for _, agent := range p.agents {
		candidates = append(candidates, schedule.Candidate{
			AgentView:    capacityView(agent, p.loadLocked(agent.ID)),
			LastAssigned: agent.LastAssigned,
		})
	}
	return candidates
}

func capacityView(a *agentProjection, load int) capacity.AgentView {
	return capacity.AgentView{
		ID:       a.ID,
		Role:     a.Role,
		Presence: a.Presence,
		Load:     load,
	}
}

// LastSeq returns the globally last applied sequence number.
func (p *Projection) LastSeq() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSeq
}
