package types

import "strings"

// Status is a work item's position in the canonical lifecycle.
// The zero value is StatusUnset, the state items carry when first added to
// the board by an external collaborator.
type Status int

// Canonical lifecycle progression, in order.
const (
	StatusUnset Status = iota
	StatusTodo
	StatusInProgress
	StatusDone
)

// statusNames maps each status to its board-facing display name.
var statusNames = map[Status]string{
	StatusUnset:      "Unset",
	StatusTodo:       "Todo",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
}

// progression is the canonical order. Index distance between two statuses is
// the number of writes a forward transition requires.
var progression = []Status{StatusUnset, StatusTodo, StatusInProgress, StatusDone}

// String returns the board-facing display name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Terminal reports whether the status is the final lifecycle position.
func (s Status) Terminal() bool {
	return s == StatusDone
}

// ParseStatus converts a board-facing name into a Status. Matching is
// case-insensitive and tolerates the underscore and hyphen spellings that
// appear in board exports ("in_progress", "in-progress").
// Returns ErrUnknownStatus for anything else.
func ParseStatus(name string) (Status, error) {
	normalized := strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(name)))
	for s, display := range statusNames {
		if strings.ToLower(display) == normalized {
			return s, nil
		}
	}
	return StatusUnset, ErrUnknownStatus
}

// PathBetween returns the statuses that must be committed, in order, to move
// an item from one lifecycle position to another.
//
// Forward moves walk the progression one step at a time, so a jump that
// skips intermediates expands into one write per skipped status plus the
// target. Equal from/to yields an empty path (idempotent no-op). Backward
// moves are corrections and yield a single direct write; intermediate states
// are never replayed in reverse.
func PathBetween(from, to Status) []Status {
	if from == to {
		return nil
	}
	if to < from {
		return []Status{to}
	}
	var path []Status
	for _, s := range progression {
		if s > from && s <= to {
			path = append(path, s)
		}
	}
	return path
}
