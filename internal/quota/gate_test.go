package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/warden/pkg/types"
)

// stubOracle returns a fixed snapshot or error and counts calls.
type stubOracle struct {
	snap  types.QuotaSnapshot
	err   error
	calls int
}

func (s *stubOracle) Snapshot(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error) {
	s.calls++
	if s.err != nil {
		return types.QuotaSnapshot{}, s.err
	}
	snap := s.snap
	snap.Class = class
	return snap, nil
}

func newTestGate(oracle Oracle, mins map[types.QuotaClass]int) *Gate {
	return NewGate(oracle, NewEmergency(zap.NewNop()), mins, zap.NewNop())
}

func TestAdmitDeniesExactlyBelowMinimum(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute)
	tests := []struct {
		name      string
		remaining int
		min       int
		allowed   bool
	}{
		{name: "well above minimum", remaining: 500, min: 100, allowed: true},
		{name: "exactly at minimum", remaining: 100, min: 100, allowed: true},
		{name: "one below minimum", remaining: 99, min: 100, allowed: false},
		{name: "zero remaining", remaining: 0, min: 1, allowed: false},
		{name: "zero minimum always admits", remaining: 0, min: 0, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &stubOracle{snap: types.QuotaSnapshot{Remaining: tt.remaining, Limit: 1000, ResetAt: reset}}
			gate := newTestGate(oracle, nil)

			decision, err := gate.Admit(context.Background(), "test-op", types.ClassBulkRead, tt.min)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, decision.Allowed)

			if !tt.allowed {
				require.NotNil(t, decision.Signal)
				assert.Equal(t, "test-op", decision.Signal.OperationName)
				assert.Equal(t, reset, decision.Snapshot.ResetAt)
			}
		})
	}
}

func TestAdmitFailsClosedOnOracleError(t *testing.T) {
	oracle := &stubOracle{err: errors.New("introspection timeout")}
	gate := newTestGate(oracle, nil)

	decision, err := gate.Admit(context.Background(), "test-op", types.ClassBulkMutate, 0)
	assert.False(t, decision.Allowed, "oracle failure must never admit")
	assert.Error(t, err)
}

func TestOracleWrapsFailures(t *testing.T) {
	oracle := NewOracle(failingBoard{})
	_, err := oracle.Snapshot(context.Background(), types.ClassSearch)
	assert.True(t, errors.Is(err, types.ErrOracleUnavailable))
}

func TestAdmitTakesFreshSnapshotPerCall(t *testing.T) {
	oracle := &stubOracle{snap: types.QuotaSnapshot{Remaining: 10, Limit: 10}}
	gate := newTestGate(oracle, nil)

	for i := 0; i < 3; i++ {
		_, err := gate.Admit(context.Background(), "test-op", types.ClassSearch, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, oracle.calls, "one introspection call per admission")
}

func TestAdmitClassUsesConfiguredMinimum(t *testing.T) {
	oracle := &stubOracle{snap: types.QuotaSnapshot{Remaining: 50, Limit: 1000}}
	gate := newTestGate(oracle, map[types.QuotaClass]int{
		types.ClassBulkRead:   25,
		types.ClassBulkMutate: 100,
	})

	decision, err := gate.AdmitClass(context.Background(), "test-op", types.ClassBulkRead)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = gate.AdmitClass(context.Background(), "test-op", types.ClassBulkMutate)
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "mutate floor is stricter")
}

// failingBoard implements the minimal board surface the oracle touches.
type failingBoard struct{}

func (failingBoard) ListItems(ctx context.Context) ([]types.BoardItem, error) { return nil, nil }
func (failingBoard) StatusOptions(ctx context.Context) ([]types.StatusOption, error) {
	return nil, nil
}
func (failingBoard) UpdateItemStatus(ctx context.Context, itemID, optionID string) error { return nil }
func (failingBoard) UpdateItemField(ctx context.Context, itemID, fieldID, value string) error {
	return nil
}
func (failingBoard) Quota(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error) {
	return types.QuotaSnapshot{}, errors.New("gateway timeout")
}
