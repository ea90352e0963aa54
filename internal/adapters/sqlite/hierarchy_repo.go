package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/dispatch/internal/ports/secondary"
)

// HierarchyRepository implements secondary.HierarchyRepository with
// SQLite. Each agent has at most one direct superior; transitive walks
// follow the parent chain.
type HierarchyRepository struct {
	db *sql.DB
}

// NewHierarchyRepository creates a new SQLite hierarchy repository.
func NewHierarchyRepository(db *sql.DB) *HierarchyRepository {
	return &HierarchyRepository{db: db}
}

// SetParent records parentID as the direct superior of childID, replacing
// any previous relation for the child.
func (r *HierarchyRepository) SetParent(ctx context.Context, parentID, childID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hierarchies (parent_id, child_id) VALUES (?, ?)
		 ON CONFLICT(child_id) DO UPDATE SET parent_id = excluded.parent_id`,
		parentID, childID,
	)
	if err != nil {
		return fmt.Errorf("failed to set hierarchy: %w", err)
	}
	return nil
}

// Ancestors returns the transitive chain of superiors, nearest first.
// The walk is bounded by the number of relations, so a cycle introduced
// by bad data cannot loop forever.
func (r *HierarchyRepository) Ancestors(ctx context.Context, agentID string) ([]string, error) {
	var ancestors []string
	seen := map[string]bool{agentID: true}
	current := agentID
	for {
		var parent string
		err := r.db.QueryRowContext(ctx,
			"SELECT parent_id FROM hierarchies WHERE child_id = ?",
			current,
		).Scan(&parent)
		if err == sql.ErrNoRows {
			return ancestors, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to walk hierarchy: %w", err)
		}
		if seen[parent] {
			return ancestors, nil
		}
		seen[parent] = true
		ancestors = append(ancestors, parent)
		current = parent
	}
}

// Descendants returns every agent transitively reporting to parentID.
func (r *HierarchyRepository) Descendants(ctx context.Context, parentID string) ([]string, error) {
	var descendants []string
	seen := map[string]bool{parentID: true}
	frontier := []string{parentID}
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]

		rows, err := r.db.QueryContext(ctx,
			"SELECT child_id FROM hierarchies WHERE parent_id = ?",
			next,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to walk hierarchy: %w", err)
		}
		var children []string
		for rows.Next() {
			var child string
			if err := rows.Scan(&child); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan hierarchy: %w", err)
			}
			children = append(children, child)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()

		for _, child := range children {
			if !seen[child] {
				seen[child] = true
				descendants = append(descendants, child)
				frontier = append(frontier, child)
			}
		}
	}
	return descendants, nil
}

// Ensure HierarchyRepository implements the interface
var _ secondary.HierarchyRepository = (*HierarchyRepository)(nil)
