package domain

import "errors"

// ErrCapabilityUnavailable is returned by capability adapters when the
// backing service is not configured (missing credentials, nil client).
// Callers degrade to their documented fallback and keep going.
var ErrCapabilityUnavailable = errors.New("capability not configured")

// ErrToolNotFound is returned when a decision names a tool the invoker
// does not know.
var ErrToolNotFound = errors.New("tool not found")

// ErrSessionEnded is returned when input arrives after the conversation
// reached its terminal state.
var ErrSessionEnded = errors.New("session has ended")
