// Package quota implements admission control over the board platform's
// shared, rate-limited API: fresh per-class quota snapshots, an allow/deny
// gate with configured minimums, and the emergency signal computed on
// denial.
package quota

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/warden/internal/board"
	"github.com/mesh-intelligence/warden/pkg/types"
)

// Oracle reports one class's quota state. Every Snapshot call performs a
// real introspection request; results are deliberately never cached so that
// admission decisions always see current data.
type Oracle interface {
	Snapshot(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error)
}

// clientOracle reads quota through a board client.
type clientOracle struct {
	client board.Client
}

// NewOracle wraps a board client's introspection endpoint as an Oracle.
func NewOracle(client board.Client) Oracle {
	return &clientOracle{client: client}
}

// Snapshot performs exactly one introspection call. Any failure surfaces as
// types.ErrOracleUnavailable; callers must treat that as depleted quota
// (fail closed), never as permission to proceed.
func (o *clientOracle) Snapshot(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error) {
	snap, err := o.client.Quota(ctx, class)
	if err != nil {
		return types.QuotaSnapshot{}, fmt.Errorf("%w: %v", types.ErrOracleUnavailable, err)
	}
	if snap.Remaining < 0 {
		snap.Remaining = 0
	}
	return snap, nil
}
