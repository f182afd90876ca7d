package quota

import (
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/warden/pkg/types"
)

// Emergency computes the structured signal handed to callers when an
// operation is denied. It never sleeps: backoff is a caller policy, since an
// interactive caller and a scheduled one want different behavior.
type Emergency struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEmergency creates a handler. A nil logger disables event emission.
func NewEmergency(logger *zap.Logger) *Emergency {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emergency{logger: logger, now: time.Now}
}

// OnDenied builds the signal for a denied operation. WaitSeconds is clamped
// at zero: a ResetAt in the past (clock skew, a window that already rolled
// over) must not produce a negative wait.
func (e *Emergency) OnDenied(operationName string, snap types.QuotaSnapshot) types.EmergencySignal {
	wait := snap.ResetAt.Sub(e.now())
	if wait < 0 {
		wait = 0
	}
	seconds := int64(wait / time.Second)
	if wait%time.Second != 0 {
		seconds++
	}

	signal := types.EmergencySignal{
		OperationName: operationName,
		WaitSeconds:   seconds,
		ResetAt:       snap.ResetAt,
	}
	e.logger.Warn("emergency signal",
		zap.String("operation", operationName),
		zap.String("class", string(snap.Class)),
		zap.Int64("wait_seconds", seconds),
		zap.Time("reset_at", snap.ResetAt),
	)
	return signal
}
