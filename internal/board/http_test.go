package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/warden/pkg/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *HTTPClient) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/quota", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"resources": map[string]any{
				"bulk-read":   map[string]any{"remaining": 4200, "limit": 5000, "reset_at": 1767225600},
				"bulk-mutate": map[string]any{"remaining": 900, "limit": 1000, "reset_at": 1767225600},
				"search":      map[string]any{"remaining": 3, "limit": 30, "reset_at": 1767225600},
			},
		})
	})
	mux.HandleFunc("/boards/board-1/items", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"id": "it-1", "title": "Hello World E2E", "status": ""},
				{"id": "it-2", "title": "Ship report", "status": "In Progress"},
				{"id": "it-3", "title": "Archived thing", "status": "Iced"},
			},
		})
	})
	mux.HandleFunc("/boards/board-1/fields/status/options", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"options": []map[string]string{
				{"name": "Todo", "option_id": "o1"},
				{"name": "In Progress", "option_id": "o2"},
				{"name": "Done", "option_id": "o3"},
			},
		})
	})
	mux.HandleFunc("/boards/board-1/items/it-1/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "o2", body["option_id"])
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/boards/board-1/items/gone/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewHTTPClient(srv.URL, "tok", "board-1")
}

func TestHTTPClientListItems(t *testing.T) {
	_, client := newTestServer(t)

	items, err := client.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, types.StatusUnset, items[0].Status, "empty status reads as Unset")
	assert.Equal(t, types.StatusInProgress, items[1].Status)
	assert.Equal(t, types.StatusUnset, items[2].Status, "unrecognized option reads as Unset")
}

func TestHTTPClientStatusOptions(t *testing.T) {
	_, client := newTestServer(t)

	options, err := client.StatusOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "o2", options[1].OptionID)
}

func TestHTTPClientUpdateItemStatus(t *testing.T) {
	_, client := newTestServer(t)

	err := client.UpdateItemStatus(context.Background(), "it-1", "o2")
	require.NoError(t, err)

	err = client.UpdateItemStatus(context.Background(), "gone", "o2")
	assert.True(t, errors.Is(err, types.ErrItemNotFound))
}

func TestHTTPClientQuota(t *testing.T) {
	_, client := newTestServer(t)

	snap, err := client.Quota(context.Background(), types.ClassSearch)
	require.NoError(t, err)
	assert.Equal(t, types.ClassSearch, snap.Class)
	assert.Equal(t, 3, snap.Remaining)
	assert.Equal(t, 30, snap.Limit)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), snap.ResetAt)
}

func TestHTTPClientQuotaMissingClass(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quota", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"resources": map[string]any{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", "board-1")
	_, err := client.Quota(context.Background(), types.ClassBulkRead)
	assert.Error(t, err)
}
