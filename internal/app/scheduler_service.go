package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/core/schedule"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// Waker wakes the background scheduler. Services signal it after commits
// that can change eligibility (intake, presence, closure, overrides).
type Waker interface {
	Notify()
}

// SchedulerServiceImpl implements the SchedulerService interface. It is
// reactive: it never polls, it runs a pass when woken.
type SchedulerServiceImpl struct {
	store         secondary.EventStore
	agentRepo     secondary.AgentRepository
	hierarchyRepo secondary.HierarchyRepository
	notifier      secondary.Notifier
	projection    *Projection
	maxPerAgent   int
	wake          chan struct{}
	now           func() time.Time
}

// NewSchedulerService creates a new SchedulerService with injected
// dependencies. notifier may be nil.
func NewSchedulerService(
	store secondary.EventStore,
	agentRepo secondary.AgentRepository,
	hierarchyRepo secondary.HierarchyRepository,
	notifier secondary.Notifier,
	projection *Projection,
	maxPerAgent int,
) *SchedulerServiceImpl {
	return &SchedulerServiceImpl{
		store:         store,
		agentRepo:     agentRepo,
		hierarchyRepo: hierarchyRepo,
		notifier:      notifier,
		projection:    projection,
		maxPerAgent:   maxPerAgent,
		wake:          make(chan struct{}, 1),
		now:           time.Now,
	}
}

// Notify wakes the scheduler without blocking. Multiple notifications
// before the next pass coalesce into one.
func (s *SchedulerServiceImpl) Notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run blocks, running a pass whenever woken, until ctx is done.
func (s *SchedulerServiceImpl) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
			if _, err := s.Pass(ctx); err != nil {
				log.Printf("scheduler pass: %v", err)
			}
		}
	}
}

// assignOutcome reports how assign settled one pending conversation.
type assignOutcome int

const (
	// assignCommitted: this pass committed the ASSIGNED event.
	assignCommitted assignOutcome = iota
	// assignSettledElsewhere: a competing writer already committed an
	// event for the conversation; it is no longer PENDING in the log.
	assignSettledElsewhere
	// assignNoCandidate: no eligible agent can take the conversation.
	assignNoCandidate
)

// Pass matches PENDING conversations, oldest first, to the best eligible
// agent each. Returns the number of assignments committed. When the head
// conversation has no eligible agent the pass stops: capacity is shared,
// and skipping the head would starve the customer waiting longest.
func (s *SchedulerServiceImpl) Pass(ctx context.Context) (int, error) {
	assigned := 0
	for _, view := range s.projection.Pending() {
		outcome, err := s.assign(ctx, view)
		if err != nil {
			return assigned, err
		}
		switch outcome {
		case assignCommitted:
			assigned++
		case assignSettledElsewhere:
			continue
		case assignNoCandidate:
			return assigned, nil
		}
	}
	return assigned, nil
}

// assign tries to commit an ASSIGNED event for one conversation. On a
// lost optimistic race the store, not the projection, decides what
// happened: the projection may lag a competing writer, and trusting it
// could commit a second ASSIGNED over one already in the log. Every
// conversation-scoped kind moves the conversation out of PENDING, so any
// event committed past our expected sequence means it was assigned or
// ended elsewhere and this pass must leave it alone.
func (s *SchedulerServiceImpl) assign(ctx context.Context, view conversationView) (assignOutcome, error) {
	ranked := schedule.Rank(s.projection.Candidates(), s.maxPerAgent)
	if len(ranked) == 0 {
		return assignNoCandidate, nil
	}

	expectedSeq := view.LastSeq
	for _, candidate := range ranked {
		e := event.Event{
			Kind:           event.KindAssigned,
			ConversationID: view.ID,
			AgentID:        candidate.ID,
			ActorID:        "scheduler",
			CreatedAt:      s.now().UTC(),
		}
		if err := e.Validate(); err != nil {
			return assignNoCandidate, fmt.Errorf("%w: %v", primary.ErrValidation, err)
		}
		committed, err := s.projection.CommitEvent(ctx, s.store, e, expectedSeq)
		if errors.Is(err, secondary.ErrSequenceConflict) {
			latest, seqErr := s.store.LastSeq(ctx, view.ID)
			if seqErr != nil {
				return assignNoCandidate, fmt.Errorf("%w: %v", primary.ErrPersistence, seqErr)
			}
			if latest > expectedSeq {
				return assignSettledElsewhere, nil
			}
			expectedSeq = latest
			continue
		}
		if err != nil {
			return assignNoCandidate, fmt.Errorf("%w: %v", primary.ErrPersistence, err)
		}

		s.publish(ctx, committed, "")
		return assignCommitted, nil
	}
	return assignNoCandidate, nil
}

// publish fans the committed assignment change out to the assignee, their
// chain of superiors, every principal, and the previous assignee.
// Best-effort: the event is already committed, a failed notification only
// logs.
func (s *SchedulerServiceImpl) publish(ctx context.Context, e event.Event, previousAgent string) {
	publishAssignment(ctx, s.notifier, s.agentRepo, s.hierarchyRepo, e, previousAgent)
}

// Ensure SchedulerServiceImpl implements the interfaces
var (
	_ primary.SchedulerService = (*SchedulerServiceImpl)(nil)
	_ Waker                    = (*SchedulerServiceImpl)(nil)
)
