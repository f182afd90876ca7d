package types

import "time"

// QuotaClass identifies an independently-metered category of API usage.
type QuotaClass string

// Quota classes. Each class has its own remaining/limit/reset accounting on
// the remote side; depleting one never affects the others.
const (
	ClassBulkRead   QuotaClass = "bulk-read"
	ClassBulkMutate QuotaClass = "bulk-mutate"
	ClassSearch     QuotaClass = "search"
)

// Classes lists every quota class in display order.
var Classes = []QuotaClass{ClassBulkRead, ClassBulkMutate, ClassSearch}

// validClasses is the set of recognized quota class values.
var validClasses = map[QuotaClass]bool{
	ClassBulkRead:   true,
	ClassBulkMutate: true,
	ClassSearch:     true,
}

// ParseQuotaClass converts a user-supplied string into a QuotaClass.
// Returns ErrUnknownClass if the value is not recognized.
func ParseQuotaClass(s string) (QuotaClass, error) {
	c := QuotaClass(s)
	if !validClasses[c] {
		return "", ErrUnknownClass
	}
	return c, nil
}

// QuotaSnapshot is one class's quota state as reported by the remote
// introspection surface. Snapshots are taken fresh per admission decision
// and are never cached.
type QuotaSnapshot struct {
	Class     QuotaClass `json:"class" yaml:"class"`
	Remaining int        `json:"remaining" yaml:"remaining"`
	Limit     int        `json:"limit" yaml:"limit"`
	ResetAt   time.Time  `json:"reset_at" yaml:"reset_at"`
}

// Depleted reports whether the snapshot falls below the given minimum.
func (s QuotaSnapshot) Depleted(minRemaining int) bool {
	return s.Remaining < minRemaining
}

// EmergencySignal is the structured result handed to callers when an
// operation is denied. WaitSeconds is clamped at zero; a reset time in the
// past (clock skew, stale introspection) never produces a negative wait.
type EmergencySignal struct {
	OperationName string    `json:"operation_name" yaml:"operation_name"`
	WaitSeconds   int64     `json:"wait_seconds" yaml:"wait_seconds"`
	ResetAt       time.Time `json:"reset_at" yaml:"reset_at"`
}
