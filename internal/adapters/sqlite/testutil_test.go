// Package sqlite_test contains integration tests for SQLite adapters.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup functions use db.GetSchemaSQL() so tests run
// against the authoritative schema, preventing drift between test and
// production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/dispatch/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedAgent inserts a test agent and returns its ID.
func seedAgent(t *testing.T, db *sql.DB, id, role string) string {
	t.Helper()
	if id == "" {
		id = "ana.agent"
	}
	if role == "" {
		role = "AGENT"
	}
	_, err := db.Exec(
		"INSERT INTO agents (id, full_name, role, created_at) VALUES (?, ?, ?, '2026-03-10T09:00:00Z')",
		id, id, role,
	)
	if err != nil {
		t.Fatalf("failed to seed agent: %v", err)
	}
	return id
}

// seedConversation inserts a test conversation intake row and returns its ID.
func seedConversation(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "conv-001"
	}
	_, err := db.Exec(
		"INSERT INTO conversations (id, client_phone, last_message, created_at) VALUES (?, '+50377001122', 'hola', '2026-03-10T09:00:00Z')",
		id,
	)
	if err != nil {
		t.Fatalf("failed to seed conversation: %v", err)
	}
	return id
}
