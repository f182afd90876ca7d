// Package lifecycle enforces ordered status progression for tracked board
// items. Every transition is validated against the board's declared option
// set, skipped intermediate statuses are committed as separate writes, and
// each write is individually admitted against the bulk-mutate quota class.
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/warden/internal/board"
	"github.com/mesh-intelligence/warden/internal/cache"
	"github.com/mesh-intelligence/warden/internal/quota"
	"github.com/mesh-intelligence/warden/pkg/types"
)

// Operation names used for admission and logging.
const (
	opStatusOptions = "status-options"
	opResolveItem   = "resolve-item"
	opStatusWrite   = "status-write"
)

// Result is a committed transition. Committed lists every status written,
// in order; a request whose target equals the current status commits
// nothing and reports NoOp.
type Result struct {
	Final     types.Status
	Committed []types.Status
	NoOp      bool
}

// Engine walks items through the canonical lifecycle.
type Engine struct {
	client board.Client
	cache  *cache.Cache
	gate   *quota.Gate
	cfg    types.Config
	logger *zap.Logger
}

// New creates an engine over the given board, cache, and gate.
func New(client board.Client, c *cache.Cache, gate *quota.Gate, cfg types.Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, cache: c, gate: gate, cfg: cfg, logger: logger}
}

func (e *Engine) ttl() time.Duration {
	return time.Duration(e.cfg.TTLSeconds) * time.Second
}

// Options returns the board's declared status option set, read through the
// response cache. The stale flag marks option data served past its TTL.
func (e *Engine) Options(ctx context.Context) ([]types.StatusOption, bool, error) {
	res, err := e.cache.GetOrFetch(ctx, opStatusOptions, cache.OptionsKey(e.cfg.BoardID),
		e.ttl(), e.cfg.Min(types.ClassBulkRead), func(ctx context.Context) ([]byte, error) {
			options, err := e.client.StatusOptions(ctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(options)
		})
	if err != nil {
		return nil, false, err
	}

	var options []types.StatusOption
	if err := json.Unmarshal(res.Payload, &options); err != nil {
		return nil, false, fmt.Errorf("decode cached options: %w", err)
	}
	return options, res.Stale, nil
}

// Items returns the board's item listing, read through the response cache.
func (e *Engine) Items(ctx context.Context) ([]types.BoardItem, bool, error) {
	res, err := e.cache.GetOrFetch(ctx, opResolveItem, cache.ItemsKey(e.cfg.BoardID),
		e.ttl(), e.cfg.Min(types.ClassBulkRead), e.fetchItems)
	if err != nil {
		return nil, false, err
	}
	items, err := decodeItems(res.Payload)
	return items, res.Stale, err
}

// freshItems re-reads the listing through an admitted fetch, refusing stale
// data. Transition paths are computed from this, never from the TTL cache:
// a concurrent writer may have moved the item since the last cached read.
func (e *Engine) freshItems(ctx context.Context) ([]types.BoardItem, error) {
	payload, err := e.cache.Refresh(ctx, opResolveItem, cache.ItemsKey(e.cfg.BoardID),
		e.ttl(), e.cfg.Min(types.ClassBulkRead), e.fetchItems)
	if err != nil {
		return nil, err
	}
	return decodeItems(payload)
}

func (e *Engine) fetchItems(ctx context.Context) ([]byte, error) {
	items, err := e.client.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(items)
}

func decodeItems(payload []byte) ([]types.BoardItem, error) {
	var items []types.BoardItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode cached items: %w", err)
	}
	return items, nil
}

// RequestTransition moves the titled item to target.
//
// The target is validated against the board's option set first; an unknown
// status fails fast with zero writes, since it signals a caller or config
// defect rather than a transient condition. The item's current status is
// then re-read fresh, the progression path is computed, and each step is
// committed as its own admitted write. Equal current and target statuses
// succeed as a no-op. A target behind the current status is honored as one
// direct write; regressions do not replay intermediates.
func (e *Engine) RequestTransition(ctx context.Context, itemTitle string, target types.Status) (Result, error) {
	options, _, err := e.Options(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := validateTarget(options, target); err != nil {
		return Result{}, err
	}

	items, err := e.freshItems(ctx)
	if err != nil {
		return Result{}, err
	}
	item, err := types.FindItemByTitle(items, itemTitle)
	if err != nil {
		return Result{}, err
	}

	return e.commitPath(ctx, item, options, item.Status, target)
}

// EnsureLifecycle is RequestTransition for callers that already know the
// item's current status: the fresh status read is skipped and the path is
// computed from the caller-supplied position. The option-set validation and
// the per-write admission still apply.
func (e *Engine) EnsureLifecycle(ctx context.Context, itemTitle string, from, to types.Status) (Result, error) {
	options, _, err := e.Options(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := validateTarget(options, to); err != nil {
		return Result{}, err
	}

	items, _, err := e.Items(ctx)
	if err != nil {
		return Result{}, err
	}
	item, err := types.FindItemByTitle(items, itemTitle)
	if err != nil {
		return Result{}, err
	}

	return e.commitPath(ctx, item, options, from, to)
}

// validateTarget checks membership in the board's option set. Unset is the
// absence of a status and needs no declared option.
func validateTarget(options []types.StatusOption, target types.Status) error {
	if target == types.StatusUnset {
		return nil
	}
	if _, err := types.FindOption(options, target); err != nil {
		return fmt.Errorf("%w: %s not in board option set", types.ErrUnknownStatus, target)
	}
	return nil
}

// commitPath walks the item along the progression, one admitted write per
// step. On failure after at least one commit it returns a
// PartialTransitionError naming the last committed status, making the
// operation resumable; committed writes are never rolled back.
func (e *Engine) commitPath(ctx context.Context, item types.BoardItem, options []types.StatusOption, from, to types.Status) (Result, error) {
	path := types.PathBetween(from, to)
	if len(path) == 0 {
		e.logger.Debug("transition is a no-op",
			zap.String("item", item.Title),
			zap.String("status", from.String()),
		)
		return Result{Final: from, NoOp: true}, nil
	}

	// Resolve every step's option up front so a board missing an
	// intermediate option rejects before any write.
	optionIDs := make([]string, len(path))
	for i, step := range path {
		if step == types.StatusUnset {
			continue // cleared field, no option needed
		}
		opt, err := types.FindOption(options, step)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %s not in board option set", types.ErrUnknownStatus, step)
		}
		optionIDs[i] = opt.OptionID
	}

	var committed []types.Status
	for i, step := range path {
		if err := e.commitStep(ctx, item, step, optionIDs[i]); err != nil {
			if len(committed) > 0 {
				return Result{Committed: committed}, &types.PartialTransitionError{
					LastCommitted: committed[len(committed)-1],
					Target:        to,
					Err:           err,
				}
			}
			return Result{}, err
		}
		committed = append(committed, step)
	}

	return Result{Final: to, Committed: committed}, nil
}

// commitStep admits and applies one status write.
func (e *Engine) commitStep(ctx context.Context, item types.BoardItem, step types.Status, optionID string) error {
	decision, err := e.gate.Admit(ctx, opStatusWrite, types.ClassBulkMutate, e.cfg.Min(types.ClassBulkMutate))
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return fmt.Errorf("%w: %s has %d remaining, need %d",
			types.ErrQuotaExhausted, decision.Snapshot.Class,
			decision.Snapshot.Remaining, e.cfg.Min(types.ClassBulkMutate))
	}

	if err := e.client.UpdateItemStatus(ctx, item.ID, optionID); err != nil {
		return fmt.Errorf("write %s: %w", step, err)
	}

	e.logger.Info("status committed",
		zap.String("item", item.Title),
		zap.String("item_id", item.ID),
		zap.String("status", step.String()),
	)
	return nil
}
