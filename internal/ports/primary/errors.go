package primary

import "errors"

// Error taxonomy for engine operations. Callers match with errors.Is;
// services wrap with fmt.Errorf("%w: ...") to add context.
var (
	// ErrValidation marks a malformed intent (unknown enum value, missing
	// field). Rejected before any log append - no side effect.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown conversation or agent id.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a failed role or hierarchy check. Produces no
	// state-changing event.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition marks a lifecycle move the state machine
	// forbids.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrConflict marks a lost optimistic-concurrency race on append.
	// Recoverable: the scheduler retries against another agent.
	ErrConflict = errors.New("conflicting assignment")

	// ErrTargetUnavailable marks a target agent rejected by the capacity
	// policy (over cap or not ONLINE).
	ErrTargetUnavailable = errors.New("target unavailable")

	// ErrPersistence marks an append whose durable write could not be
	// confirmed. The caller must not assume the action happened and must
	// not retry blindly.
	ErrPersistence = errors.New("persistence failure")
)
