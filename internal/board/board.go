// Package board defines the client contract for the shared kanban board
// platform and provides an HTTP implementation plus an in-memory board for
// tests and dry runs.
package board

import (
	"context"

	"github.com/mesh-intelligence/warden/pkg/types"
)

// Client is the query/mutation surface of the board platform, together with
// its quota-introspection endpoint. Implementations must be safe for use by
// a single synchronous caller; cross-process coordination is explicitly not
// provided.
type Client interface {
	// ListItems returns a read snapshot of every item on the board.
	ListItems(ctx context.Context) ([]types.BoardItem, error)

	// StatusOptions returns the board's declared single-select status set.
	StatusOptions(ctx context.Context) ([]types.StatusOption, error)

	// UpdateItemStatus sets an item's status field to the given option.
	// An empty optionID clears the field, returning the item to Unset.
	// Returns types.ErrItemNotFound if the item does not exist.
	UpdateItemStatus(ctx context.Context, itemID, optionID string) error

	// UpdateItemField sets an arbitrary field on an item.
	// Returns types.ErrItemNotFound if the item does not exist.
	UpdateItemField(ctx context.Context, itemID, fieldID, value string) error

	// Quota returns the platform's own accounting for one usage class.
	// The result reflects the platform's view at call time; it is never
	// cached by implementations.
	Quota(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error)
}
