package quota

import (
	"context"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/warden/pkg/types"
)

// Decision is the outcome of one admission request. On denial the snapshot
// that triggered it and the computed emergency signal are attached; the
// caller decides whether to block, fall back, or surface the denial.
type Decision struct {
	Allowed  bool
	Snapshot types.QuotaSnapshot
	Signal   *types.EmergencySignal
}

// Gate decides whether an operation may consume shared quota. It never
// blocks or sleeps; a denial is returned immediately with the signal needed
// for the caller's own backoff policy.
type Gate struct {
	oracle    Oracle
	emergency *Emergency
	mins      map[types.QuotaClass]int
	logger    *zap.Logger
}

// NewGate creates a gate with the given per-class admission floors.
func NewGate(oracle Oracle, emergency *Emergency, mins map[types.QuotaClass]int, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{oracle: oracle, emergency: emergency, mins: mins, logger: logger}
}

// Admit checks whether operationName may proceed against the given class.
//
// The snapshot is taken fresh; a denial happens exactly when
// snapshot.Remaining < minRemaining. An oracle failure returns a denied
// decision together with an error wrapping types.ErrOracleUnavailable —
// fail closed, never fail open.
func (g *Gate) Admit(ctx context.Context, operationName string, class types.QuotaClass, minRemaining int) (Decision, error) {
	snap, err := g.oracle.Snapshot(ctx, class)
	if err != nil {
		g.logger.Warn("admission denied, oracle unavailable",
			zap.String("operation", operationName),
			zap.String("class", string(class)),
			zap.Error(err),
		)
		return Decision{Allowed: false}, err
	}

	if snap.Depleted(minRemaining) {
		signal := g.emergency.OnDenied(operationName, snap)
		g.logger.Warn("admission denied",
			zap.String("operation", operationName),
			zap.String("class", string(class)),
			zap.Int("remaining", snap.Remaining),
			zap.Int("min_remaining", minRemaining),
			zap.Time("reset_at", snap.ResetAt),
		)
		return Decision{Allowed: false, Snapshot: snap, Signal: &signal}, nil
	}

	g.logger.Debug("admission allowed",
		zap.String("operation", operationName),
		zap.String("class", string(class)),
		zap.Int("remaining", snap.Remaining),
		zap.Int("min_remaining", minRemaining),
	)
	return Decision{Allowed: true, Snapshot: snap}, nil
}

// AdmitClass is Admit with the gate's configured floor for the class.
func (g *Gate) AdmitClass(ctx context.Context, operationName string, class types.QuotaClass) (Decision, error) {
	return g.Admit(ctx, operationName, class, g.mins[class])
}

// Min returns the configured floor for a class, zero when unset.
func (g *Gate) Min(class types.QuotaClass) int {
	return g.mins[class]
}
