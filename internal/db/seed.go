package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a small
// team with a two-level hierarchy and a couple of waiting conversations.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)

	agents := []struct{ id, name, role string }{
		{"maria.principal", "Maria Fuentes", "PRINCIPAL"},
		{"carlos.super", "Carlos Mendez", "SUPERVISOR"},
		{"ana.agent", "Ana Torres", "AGENT"},
		{"luis.agent", "Luis Rojas", "AGENT"},
		{"rita.audit", "Rita Campos", "AUDIT"},
	}
	for _, a := range agents {
		if _, err := database.Exec(
			"INSERT INTO agents (id, full_name, role, created_at) VALUES (?, ?, ?, ?)",
			a.id, a.name, a.role, now,
		); err != nil {
			return fmt.Errorf("seed agents: %w", err)
		}
	}

	hierarchies := []struct{ parent, child string }{
		{"maria.principal", "carlos.super"},
		{"carlos.super", "ana.agent"},
		{"carlos.super", "luis.agent"},
	}
	for _, h := range hierarchies {
		if _, err := database.Exec(
			"INSERT INTO hierarchies (parent_id, child_id, created_at) VALUES (?, ?, ?)",
			h.parent, h.child, now,
		); err != nil {
			return fmt.Errorf("seed hierarchies: %w", err)
		}
	}

	conversations := []struct{ id, phone, message string }{
		{"conv-demo-001", "+50377001122", "Hola, necesito ayuda con mi credito"},
		{"conv-demo-002", "+50377003344", "No puedo acceder a mi cuenta"},
	}
	for _, c := range conversations {
		if _, err := database.Exec(
			"INSERT INTO conversations (id, client_phone, last_message, created_at) VALUES (?, ?, ?, ?)",
			c.id, c.phone, c.message, now,
		); err != nil {
			return fmt.Errorf("seed conversations: %w", err)
		}
	}

	return nil
}
