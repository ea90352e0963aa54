package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/dispatch/internal/ports/secondary"
)

// AgentRepository implements secondary.AgentRepository with SQLite.
type AgentRepository struct {
	db *sql.DB
}

// NewAgentRepository creates a new SQLite agent repository.
func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// Create persists a new agent.
func (r *AgentRepository) Create(ctx context.Context, agent *secondary.AgentRecord) error {
	createdAt := agent.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO agents (id, full_name, role, created_at) VALUES (?, ?, ?, ?)",
		agent.ID, agent.FullName, agent.Role, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// GetByID retrieves an agent by its ID.
func (r *AgentRepository) GetByID(ctx context.Context, id string) (*secondary.AgentRecord, error) {
	var createdAt time.Time
	record := &secondary.AgentRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, full_name, role, created_at FROM agents WHERE id = ?",
		id,
	).Scan(&record.ID, &record.FullName, &record.Role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("agent %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves all agents, ordered by id.
func (r *AgentRepository) List(ctx context.Context) ([]*secondary.AgentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, full_name, role, created_at FROM agents ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*secondary.AgentRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.AgentRecord{}
		if err := rows.Scan(&record.ID, &record.FullName, &record.Role, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		agents = append(agents, record)
	}
	return agents, rows.Err()
}

// Ensure AgentRepository implements the interface
var _ secondary.AgentRepository = (*AgentRepository)(nil)
