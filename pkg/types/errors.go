package types

import (
	"errors"
	"fmt"
)

// Admission and oracle errors.
var (
	// ErrQuotaExhausted means remaining capacity fell below the requested
	// minimum. Recoverable: back off until the snapshot's ResetAt.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrOracleUnavailable means the introspection call itself failed.
	// Callers must treat this exactly like exhaustion (fail closed).
	ErrOracleUnavailable = errors.New("quota oracle unavailable")
)

// Lifecycle and board errors.
var (
	// ErrUnknownStatus means the requested status is not in the board's
	// declared option set. A caller/config defect: fail fast, no retry.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrUnknownClass means a string did not name a quota class.
	ErrUnknownClass = errors.New("unknown quota class")

	// ErrItemNotFound means no board item matched the given ID or title.
	ErrItemNotFound = errors.New("item not found")
)

// PartialTransitionError reports a lifecycle walk that failed after some
// intermediate statuses were already committed. The operation is resumable,
// not atomic: LastCommitted tells the caller where to resume from, and
// already-committed writes are never rolled back.
type PartialTransitionError struct {
	LastCommitted Status
	Target        Status
	Err           error
}

func (e *PartialTransitionError) Error() string {
	return fmt.Sprintf("transition to %s stopped at %s: %v", e.Target, e.LastCommitted, e.Err)
}

func (e *PartialTransitionError) Unwrap() error {
	return e.Err
}
