package db

// SchemaSQL is the complete schema for fresh dispatch installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests
// use it via GetSchemaSQL(); repository code referencing a column that is
// missing here fails immediately with "no such column" in tests, catching
// drift at development time.
//
// The events table is append-only: rows are never updated or deleted, and
// seq is the global serialization order. Role, state, and kind
// vocabularies are enforced as closed sets at this layer too.
const SchemaSQL = `
-- Agents (reference data; presence and load are event-log projections)
CREATE TABLE IF NOT EXISTS agents (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL CHECK(role IN ('AGENT', 'SUPERVISOR', 'PRINCIPAL', 'ADMIN', 'SUPPORT', 'DATA_SECURITY', 'AUDIT')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Conversations (intake rows; lifecycle state is an event-log projection)
CREATE TABLE IF NOT EXISTS conversations (
	id TEXT PRIMARY KEY,
	client_phone TEXT NOT NULL DEFAULT '',
	last_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Hierarchies (supervisor->agent, principal->supervisor; weak references
-- used only for authorization lookups)
CREATE TABLE IF NOT EXISTS hierarchies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_id TEXT NOT NULL,
	child_id TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (parent_id) REFERENCES agents(id),
	FOREIGN KEY (child_id) REFERENCES agents(id)
);

-- Event log (append-only source of truth)
CREATE TABLE IF NOT EXISTS events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL CHECK(kind IN ('ASSIGNED', 'TRANSFERRED', 'INTERVENTION', 'STATE_CHANGE', 'TRANSFER', 'END_CHAT')),
	conversation_id TEXT,
	agent_id TEXT,
	from_agent_id TEXT,
	actor_id TEXT,
	actor_role TEXT,
	detail TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_conversation ON events(conversation_id);
CREATE INDEX IF NOT EXISTS idx_events_agent ON events(agent_id);
`

// GetSchemaSQL returns the authoritative schema. Tests must use this
// instead of hardcoding CREATE TABLE statements.
func GetSchemaSQL() string {
	return SchemaSQL
}
