package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/warden/internal/quota"
	"github.com/mesh-intelligence/warden/pkg/types"
)

// scriptedOracle serves a fixed remaining count, or an error.
type scriptedOracle struct {
	remaining int
	err       error
}

func (o *scriptedOracle) Snapshot(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error) {
	if o.err != nil {
		return types.QuotaSnapshot{}, o.err
	}
	return types.QuotaSnapshot{Class: class, Remaining: o.remaining, Limit: 1000, ResetAt: time.Now().Add(time.Hour)}, nil
}

// countingFetch records invocations and returns payload.
type countingFetch struct {
	payload []byte
	err     error
	calls   int
}

func (f *countingFetch) fn(ctx context.Context) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func newTestCache(oracle quota.Oracle) *Cache {
	gate := quota.NewGate(oracle, quota.NewEmergency(zap.NewNop()), nil, zap.NewNop())
	return New(NewMemoryStore(), gate, zap.NewNop())
}

func TestGetOrFetchServesFreshWithoutFetching(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	c := newTestCache(&scriptedOracle{remaining: 100})
	c.now = func() time.Time { return base }

	fetch := &countingFetch{payload: []byte(`{"items":[]}`)}
	_, err := c.GetOrFetch(context.Background(), "safe-read", "items:b1", ttl, 10, fetch.fn)
	require.NoError(t, err)
	require.Equal(t, 1, fetch.calls)

	// Just inside the TTL window: served from cache, no fetch, no quota.
	c.now = func() time.Time { return base.Add(ttl - time.Millisecond) }
	res, err := c.GetOrFetch(context.Background(), "safe-read", "items:b1", ttl, 10, fetch.fn)
	require.NoError(t, err)
	assert.Equal(t, 1, fetch.calls)
	assert.False(t, res.Stale)
	assert.Equal(t, []byte(`{"items":[]}`), res.Payload)

	// Just past the TTL window: fetch runs again.
	c.now = func() time.Time { return base.Add(ttl + time.Millisecond) }
	_, err = c.GetOrFetch(context.Background(), "safe-read", "items:b1", ttl, 10, fetch.fn)
	require.NoError(t, err)
	assert.Equal(t, 2, fetch.calls)
}

func TestGetOrFetchFallsBackToStaleOnDenial(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oracle := &scriptedOracle{remaining: 100}

	c := newTestCache(oracle)
	c.now = func() time.Time { return base }

	fetch := &countingFetch{payload: []byte(`payload-v1`)}
	_, err := c.GetOrFetch(context.Background(), "safe-read", "k", time.Minute, 10, fetch.fn)
	require.NoError(t, err)

	// Entry expires, quota drops below the floor.
	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	oracle.remaining = 3

	res, err := c.GetOrFetch(context.Background(), "safe-read", "k", time.Minute, 10, fetch.fn)
	require.NoError(t, err, "stale fallback must not surface the denial")
	assert.True(t, res.Stale)
	assert.Equal(t, []byte(`payload-v1`), res.Payload)
	assert.Equal(t, base, res.FetchedAt)
	assert.Equal(t, 1, fetch.calls, "denied read must not fetch")
}

func TestGetOrFetchPropagatesDenialWithoutStale(t *testing.T) {
	c := newTestCache(&scriptedOracle{remaining: 0})

	fetch := &countingFetch{payload: []byte(`x`)}
	_, err := c.GetOrFetch(context.Background(), "safe-read", "empty", time.Minute, 10, fetch.fn)
	assert.True(t, errors.Is(err, types.ErrQuotaExhausted))
	assert.Equal(t, 0, fetch.calls)
}

func TestGetOrFetchPropagatesOracleFailureWithoutStale(t *testing.T) {
	c := newTestCache(failingOracle{})

	_, err := c.GetOrFetch(context.Background(), "safe-read", "empty", time.Minute, 0, (&countingFetch{}).fn)
	assert.True(t, errors.Is(err, types.ErrOracleUnavailable))
}

func TestGetOrFetchFallsBackToStaleOnFetchFailure(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCache(&scriptedOracle{remaining: 100})
	c.now = func() time.Time { return base }

	fetch := &countingFetch{payload: []byte(`good`)}
	_, err := c.GetOrFetch(context.Background(), "safe-read", "k", time.Minute, 0, fetch.fn)
	require.NoError(t, err)

	c.now = func() time.Time { return base.Add(5 * time.Minute) }
	fetch.err = errors.New("upstream 502")

	res, err := c.GetOrFetch(context.Background(), "safe-read", "k", time.Minute, 0, fetch.fn)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, []byte(`good`), res.Payload)
}

func TestRefreshNeverServesStale(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oracle := &scriptedOracle{remaining: 100}
	c := newTestCache(oracle)
	c.now = func() time.Time { return base }

	fetch := &countingFetch{payload: []byte(`v1`)}
	_, err := c.GetOrFetch(context.Background(), "safe-read", "k", time.Hour, 0, fetch.fn)
	require.NoError(t, err)

	// Even with a fresh entry present, Refresh is denied rather than
	// serving cached data: decisions must not ride old snapshots.
	oracle.remaining = 0
	_, err = c.Refresh(context.Background(), "resolve-status", "k", time.Hour, 10, fetch.fn)
	assert.True(t, errors.Is(err, types.ErrQuotaExhausted))
}

// failingOracle always fails introspection, wrapped the same way the real
// client oracle wraps outages.
type failingOracle struct{}

func (failingOracle) Snapshot(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error) {
	return types.QuotaSnapshot{}, types.ErrOracleUnavailable
}
