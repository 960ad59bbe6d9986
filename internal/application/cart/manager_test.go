package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woiladev/marketplace-client/internal/config"
	"github.com/woiladev/marketplace-client/internal/domain/cart"
	"github.com/woiladev/marketplace-client/internal/domain/session"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api/clients"
	"github.com/woiladev/marketplace-client/internal/infrastructure/store"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

// fakeCartServer is an in-memory stand-in for the server cart resource.
type fakeCartServer struct {
	mu      sync.Mutex
	rows    []clients.ServerCartRow
	nextID  int
	reloads int
	deletes []int
}

func (f *fakeCartServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/cart":
			f.reloads++
			json.NewEncoder(w).Encode(map[string]any{"cart": f.rows})

		case r.Method == http.MethodPost && r.URL.Path == "/cart":
			var body struct {
				ProductID int `json:"product_id"`
				Quantity  int `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			for i := range f.rows {
				if f.rows[i].ProductID == body.ProductID {
					f.rows[i].Quantity += body.Quantity
					w.Write([]byte(`{"message":"updated"}`))
					return
				}
			}
			f.nextID++
			f.rows = append(f.rows, clients.ServerCartRow{
				ID:        100 + f.nextID,
				ProductID: body.ProductID,
				Quantity:  body.Quantity,
				Product: clients.ServerProduct{
					ID:    body.ProductID,
					Name:  fmt.Sprintf("product-%d", body.ProductID),
					Price: "1,800 FCFA",
				},
			})
			w.Write([]byte(`{"message":"added"}`))

		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/cart/"):
			rowID, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/cart/"))
			var body struct {
				Quantity int `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			for i := range f.rows {
				if f.rows[i].ID == rowID {
					f.rows[i].Quantity = body.Quantity
				}
			}
			w.Write([]byte(`{"message":"updated"}`))

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/cart/"):
			rowID, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/cart/"))
			f.deletes = append(f.deletes, rowID)
			kept := f.rows[:0]
			for _, row := range f.rows {
				if row.ID != rowID {
					kept = append(kept, row)
				}
			}
			f.rows = kept
			w.Write([]byte(`{"message":"removed"}`))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestManager(t *testing.T, server *fakeCartServer) (*Manager, *store.MemoryStore) {
	t.Helper()

	srv := httptest.NewServer(server.handler())
	t.Cleanup(srv.Close)

	durable := store.NewMemoryStore()
	durable.Set(store.KeyToken, []byte("tok"))
	log := logger.NewWithOutput(io.Discard)
	apiClient := api.NewClient(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, durable, log)
	return NewManager(clients.NewCartClient(apiClient), durable, log), durable
}

func storedGuestCart(t *testing.T, durable store.Store) []cart.Item {
	t.Helper()
	var items []cart.Item
	store.GetJSON(durable, store.KeyGuestCart, &items)
	return items
}

//
// -----------------------------------------------------------------------------
// Guest mode
// -----------------------------------------------------------------------------

// TestGuestCart_PersistsEveryMutation verifies the persisted JSON mirrors
// the in-memory cart after each mutation and that a fresh manager rebuilt
// from the same store reproduces the identical cart.
func TestGuestCart_PersistsEveryMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, durable := newTestManager(t, &fakeCartServer{})

	m.Add(ctx, cart.Item{ID: 7, Name: "Cocoa kit", Price: "1,800 FCFA"})
	assert.Equal(t, m.Items(), storedGuestCart(t, durable))

	m.Add(ctx, cart.Item{ID: 8, Name: "Maize kit", Price: "500 FCFA"})
	assert.Equal(t, m.Items(), storedGuestCart(t, durable))

	m.UpdateQuantity(ctx, 8, 4)
	assert.Equal(t, m.Items(), storedGuestCart(t, durable))

	m.Remove(ctx, 7)
	assert.Equal(t, m.Items(), storedGuestCart(t, durable))

	rebuilt := NewManager(nil, durable, logger.NewWithOutput(io.Discard))
	assert.Equal(t, m.Items(), rebuilt.Items())
}

// TestGuestCart_AddTwiceKeepsOneRow verifies two adds of the same product
// yield one row with quantity 2.
func TestGuestCart_AddTwiceKeepsOneRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t, &fakeCartServer{})

	item := cart.Item{ID: 7, Name: "Cocoa kit", Price: "1,800 FCFA"}
	m.Add(ctx, item)
	m.Add(ctx, item)

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, m.TotalItems())
	assert.Equal(t, 3600, m.TotalPrice())
}

// TestGuestCart_QuantityFloor verifies updating to zero or less removes the
// row instead of keeping it.
func TestGuestCart_QuantityFloor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestManager(t, &fakeCartServer{})

	m.Add(ctx, cart.Item{ID: 7, Name: "Cocoa kit", Price: "1,800 FCFA"})
	m.UpdateQuantity(ctx, 7, 0)

	assert.Empty(t, m.Items())

	m.Add(ctx, cart.Item{ID: 7, Name: "Cocoa kit", Price: "1,800 FCFA"})
	m.UpdateQuantity(ctx, 7, -3)
	assert.Empty(t, m.Items())
}

//
// -----------------------------------------------------------------------------
// Mode transitions
// -----------------------------------------------------------------------------

// TestLogin_ReplacesViewWithServerCart verifies the guest view is discarded
// on login and replaced by the server reload result even when it is empty,
// while the guest cart stays untouched in storage.
func TestLogin_ReplacesViewWithServerCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server := &fakeCartServer{}
	m, durable := newTestManager(t, server)

	for id := 1; id <= 3; id++ {
		m.Add(ctx, cart.Item{ID: id, Name: fmt.Sprintf("p%d", id), Price: "500 FCFA"})
	}
	guestBefore := storedGuestCart(t, durable)
	require.Len(t, guestBefore, 3)

	m.onIdentityChange(ctx, &session.User{ID: 9})

	assert.Equal(t, ModeAuthenticated, m.Mode())
	assert.Empty(t, m.Items())
	assert.Equal(t, guestBefore, storedGuestCart(t, durable))
}

// TestLogin_ProjectsServerRows verifies server rows are projected into the
// displayed cart with the product as identity.
func TestLogin_ProjectsServerRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server := &fakeCartServer{
		rows: []clients.ServerCartRow{
			{ID: 101, ProductID: 7, Quantity: 2, Product: clients.ServerProduct{ID: 7, Name: "Cocoa kit", Price: "1,800 FCFA"}},
		},
	}
	m, _ := newTestManager(t, server)

	m.onIdentityChange(ctx, &session.User{ID: 9})

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ID)
	assert.Equal(t, 7, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Cocoa kit", items[0].Name)
}

// TestIdentityEffect_RunsOncePerTransition verifies a repeated notification
// for the current identity does not trigger another reload.
func TestIdentityEffect_RunsOncePerTransition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server := &fakeCartServer{}
	m, _ := newTestManager(t, server)

	m.onIdentityChange(ctx, &session.User{ID: 9})
	m.onIdentityChange(ctx, &session.User{ID: 9})

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, 1, server.reloads)
}

// TestLogout_FallsBackToGuestCart verifies logout drops the server view and
// reloads whatever guest cart is persisted, which may be empty.
func TestLogout_FallsBackToGuestCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, durable := newTestManager(t, &fakeCartServer{})

	m.Add(ctx, cart.Item{ID: 7, Name: "Cocoa kit", Price: "1,800 FCFA"})
	m.onIdentityChange(ctx, &session.User{ID: 9})
	require.Empty(t, m.Items())

	m.onIdentityChange(ctx, nil)

	assert.Equal(t, ModeGuest, m.Mode())
	assert.Equal(t, storedGuestCart(t, durable), m.Items())
	assert.Equal(t, 1, m.TotalItems())
}

//
// -----------------------------------------------------------------------------
// Authenticated mode
// -----------------------------------------------------------------------------

// TestAuthenticated_AddThenReload verifies an authenticated add is a
// round-trip followed by a fresh server read.
func TestAuthenticated_AddThenReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server := &fakeCartServer{}
	m, _ := newTestManager(t, server)
	m.onIdentityChange(ctx, &session.User{ID: 9})

	res := m.Add(ctx, cart.Item{ID: 7, Name: "Cocoa kit"})
	require.True(t, res.Success)

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)

	res = m.Add(ctx, cart.Item{ID: 7, Name: "Cocoa kit"})
	require.True(t, res.Success)
	assert.Equal(t, 2, m.Items()[0].Quantity)
}

// TestAuthenticated_RemoveUsesRowIdentity verifies remove locates the row by
// product id but addresses the server by the row id.
func TestAuthenticated_RemoveUsesRowIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server := &fakeCartServer{
		rows: []clients.ServerCartRow{
			{ID: 555, ProductID: 7, Quantity: 1, Product: clients.ServerProduct{ID: 7, Name: "Cocoa kit"}},
		},
	}
	m, _ := newTestManager(t, server)
	m.onIdentityChange(ctx, &session.User{ID: 9})

	res := m.Remove(ctx, 7)
	require.True(t, res.Success)
	assert.Empty(t, m.Items())

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, []int{555}, server.deletes)
}

// TestAuthenticated_UpdateQuantityFloorDelegatesToRemove verifies the
// quantity floor holds in authenticated mode too.
func TestAuthenticated_UpdateQuantityFloorDelegatesToRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server := &fakeCartServer{
		rows: []clients.ServerCartRow{
			{ID: 555, ProductID: 7, Quantity: 4, Product: clients.ServerProduct{ID: 7, Name: "Cocoa kit"}},
		},
	}
	m, _ := newTestManager(t, server)
	m.onIdentityChange(ctx, &session.User{ID: 9})

	res := m.UpdateQuantity(ctx, 7, 0)
	require.True(t, res.Success)
	assert.Empty(t, m.Items())

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, []int{555}, server.deletes)
}
