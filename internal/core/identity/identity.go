// Package identity defines the closed role and presence vocabularies for
// platform users. This is part of the Functional Core - no I/O, only pure
// functions. Unknown values fail fast at the boundary; new roles or states
// require a schema change, never silent acceptance.
package identity

import "fmt"

// Role represents a user's role on the platform.
type Role string

const (
	RoleAgent        Role = "AGENT"
	RoleSupervisor   Role = "SUPERVISOR"
	RolePrincipal    Role = "PRINCIPAL"
	RoleAdmin        Role = "ADMIN"
	RoleSupport      Role = "SUPPORT"
	RoleDataSecurity Role = "DATA_SECURITY"
	RoleAudit        Role = "AUDIT"
)

// Roles lists every recognized role, in seed order.
var Roles = []Role{
	RoleAgent,
	RoleSupervisor,
	RolePrincipal,
	RoleAdmin,
	RoleSupport,
	RoleDataSecurity,
	RoleAudit,
}

// ParseRole validates a raw role value against the closed set.
func ParseRole(raw string) (Role, error) {
	for _, r := range Roles {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Supervisory reports whether the role may exercise override authority
// (transfers and interventions).
func (r Role) Supervisory() bool {
	return r == RoleSupervisor || r == RolePrincipal || r == RoleAdmin
}

// Presence represents an agent's current availability state.
type Presence string

const (
	PresenceOnline   Presence = "ONLINE"
	PresenceBreak    Presence = "BREAK"
	PresenceOffline  Presence = "OFFLINE"
	PresenceLunch    Presence = "LUNCH"
	PresenceRestroom Presence = "RESTROOM"
)

// PresenceStates lists every recognized presence state, in seed order.
var PresenceStates = []Presence{
	PresenceOnline,
	PresenceBreak,
	PresenceOffline,
	PresenceLunch,
	PresenceRestroom,
}

// ParsePresence validates a raw presence value against the closed set.
func ParsePresence(raw string) (Presence, error) {
	for _, p := range PresenceStates {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown presence state %q", raw)
}
