// Package sqlite contains SQLite implementations of the secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/dispatch/internal/core/event"
	"github.com/example/dispatch/internal/core/identity"
	"github.com/example/dispatch/internal/ports/secondary"
)

// EventStore implements secondary.EventStore with an append-only SQLite
// table. The seq column is the global serialization order; the
// per-conversation optimistic check and the insert commit in one
// transaction, so concurrent appends for the same conversation cannot
// interleave.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new SQLite event store.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Append durably writes one event and returns its sequence number.
func (s *EventStore) Append(ctx context.Context, e event.Event, expectedSeq uint64) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin append: %w", err)
	}
	defer tx.Rollback()

	if e.ConversationID != "" {
		var last uint64
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(seq), 0) FROM events WHERE conversation_id = ?",
			e.ConversationID,
		).Scan(&last)
		if err != nil {
			return 0, fmt.Errorf("failed to check conversation sequence: %w", err)
		}
		if last != expectedSeq {
			return 0, fmt.Errorf("%w: conversation %s is at seq %d, expected %d",
				secondary.ErrSequenceConflict, e.ConversationID, last, expectedSeq)
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO events (kind, conversation_id, agent_id, from_agent_id, actor_id, actor_role, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(e.Kind),
		nullable(e.ConversationID),
		nullable(e.AgentID),
		nullable(e.FromAgentID),
		nullable(e.ActorID),
		nullable(string(e.ActorRole)),
		nullable(e.Detail),
		e.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append event: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read event sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit append: %w", err)
	}
	return uint64(seq), nil
}

// ReadFrom returns events with sequence > after, in sequence order.
func (s *EventStore) ReadFrom(ctx context.Context, after uint64) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, conversation_id, agent_id, from_agent_id, actor_id, actor_role, detail, created_at FROM events WHERE seq > ? ORDER BY seq ASC`,
		after,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			e              event.Event
			kind           string
			conversationID sql.NullString
			agentID        sql.NullString
			fromAgentID    sql.NullString
			actorID        sql.NullString
			actorRole      sql.NullString
			detail         sql.NullString
			createdAt      time.Time
		)
		if err := rows.Scan(&e.Seq, &kind, &conversationID, &agentID, &fromAgentID, &actorID, &actorRole, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		parsed, err := event.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", e.Seq, err)
		}
		e.Kind = parsed
		e.ConversationID = conversationID.String
		e.AgentID = agentID.String
		e.FromAgentID = fromAgentID.String
		e.ActorID = actorID.String
		e.ActorRole = identity.Role(actorRole.String)
		e.Detail = detail.String
		e.CreatedAt = createdAt.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}

// LastSeq returns the sequence of the conversation's most recent event.
func (s *EventStore) LastSeq(ctx context.Context, conversationID string) (uint64, error) {
	var last uint64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM events WHERE conversation_id = ?",
		conversationID,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to read conversation sequence: %w", err)
	}
	return last, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure EventStore implements the interface
var _ secondary.EventStore = (*EventStore)(nil)
