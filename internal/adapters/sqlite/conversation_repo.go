package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/dispatch/internal/ports/secondary"
)

// ConversationRepository implements secondary.ConversationRepository with
// SQLite. Rows here are intake facts only; lifecycle state lives in the
// event log.
type ConversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a new SQLite conversation repository.
func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create persists a new conversation intake row.
func (r *ConversationRepository) Create(ctx context.Context, conversation *secondary.ConversationRecord) error {
	createdAt := conversation.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO conversations (id, client_phone, last_message, created_at) VALUES (?, ?, ?, ?)",
		conversation.ID, conversation.ClientPhone, conversation.LastMessage, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// GetByID retrieves a conversation intake row by id.
func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*secondary.ConversationRecord, error) {
	var createdAt time.Time
	record := &secondary.ConversationRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, client_phone, last_message, created_at FROM conversations WHERE id = ?",
		id,
	).Scan(&record.ID, &record.ClientPhone, &record.LastMessage, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves all intake rows, oldest first.
func (r *ConversationRepository) List(ctx context.Context) ([]*secondary.ConversationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, client_phone, last_message, created_at FROM conversations ORDER BY created_at ASC, id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*secondary.ConversationRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.ConversationRecord{}
		if err := rows.Scan(&record.ID, &record.ClientPhone, &record.LastMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		conversations = append(conversations, record)
	}
	return conversations, rows.Err()
}

// Ensure ConversationRepository implements the interface
var _ secondary.ConversationRepository = (*ConversationRepository)(nil)
