package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mesh-intelligence/warden/pkg/types"
)

// defaultTimeout bounds every board API call. The platform occasionally
// hangs on quota introspection under load; an unbounded call here would
// stall the admission path that exists to protect against exactly that.
const defaultTimeout = 30 * time.Second

// HTTPClient talks to the board platform's REST-style query/mutation API.
type HTTPClient struct {
	endpoint string
	token    string
	boardID  string
	client   *http.Client
}

// NewHTTPClient creates a client for the given platform endpoint and board.
func NewHTTPClient(endpoint, token, boardID string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		token:    token,
		boardID:  boardID,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// itemPayload is the wire shape of one board item. Status arrives as the
// option's display name; items the platform has not yet triaged carry an
// empty string.
type itemPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// ListItems fetches the board's item listing.
func (c *HTTPClient) ListItems(ctx context.Context) ([]types.BoardItem, error) {
	var resp struct {
		Items []itemPayload `json:"items"`
	}
	path := fmt.Sprintf("/boards/%s/items", c.boardID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]types.BoardItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		status := types.StatusUnset
		if it.Status != "" {
			// Unrecognized names (archived or custom options) read as
			// Unset; the listing is a snapshot, not an authority.
			if parsed, err := types.ParseStatus(it.Status); err == nil {
				status = parsed
			}
		}
		items = append(items, types.BoardItem{ID: it.ID, Title: it.Title, Status: status})
	}
	return items, nil
}

// StatusOptions fetches the board's declared status option set.
func (c *HTTPClient) StatusOptions(ctx context.Context) ([]types.StatusOption, error) {
	var resp struct {
		Options []types.StatusOption `json:"options"`
	}
	path := fmt.Sprintf("/boards/%s/fields/status/options", c.boardID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("status options: %w", err)
	}
	return resp.Options, nil
}

// UpdateItemStatus sets the item's status single-select field.
func (c *HTTPClient) UpdateItemStatus(ctx context.Context, itemID, optionID string) error {
	body := map[string]string{"option_id": optionID}
	path := fmt.Sprintf("/boards/%s/items/%s/status", c.boardID, itemID)
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("update status of %s: %w", itemID, err)
	}
	return nil
}

// UpdateItemField sets an arbitrary field on the item.
func (c *HTTPClient) UpdateItemField(ctx context.Context, itemID, fieldID, value string) error {
	body := map[string]string{"value": value}
	path := fmt.Sprintf("/boards/%s/items/%s/fields/%s", c.boardID, itemID, fieldID)
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("update field %s of %s: %w", fieldID, itemID, err)
	}
	return nil
}

// Quota queries the platform's quota introspection endpoint for one class.
func (c *HTTPClient) Quota(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error) {
	var resp struct {
		Resources map[string]struct {
			Remaining int   `json:"remaining"`
			Limit     int   `json:"limit"`
			ResetAt   int64 `json:"reset_at"`
		} `json:"resources"`
	}
	if err := c.do(ctx, http.MethodGet, "/quota", nil, &resp); err != nil {
		return types.QuotaSnapshot{}, fmt.Errorf("quota introspection: %w", err)
	}

	res, ok := resp.Resources[string(class)]
	if !ok {
		return types.QuotaSnapshot{}, fmt.Errorf("quota introspection: class %s missing from response", class)
	}
	return types.QuotaSnapshot{
		Class:     class,
		Remaining: res.Remaining,
		Limit:     res.Limit,
		ResetAt:   time.Unix(res.ResetAt, 0).UTC(),
	}, nil
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). A 404 maps to types.ErrItemNotFound so callers can match on it.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.ErrItemNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// Read a bounded slice of the body for the error message.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
