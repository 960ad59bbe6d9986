package cart

import (
	"context"
	"sync"

	"github.com/woiladev/marketplace-client/internal/application/commands"
	appsession "github.com/woiladev/marketplace-client/internal/application/session"
	"github.com/woiladev/marketplace-client/internal/domain/cart"
	domainErrors "github.com/woiladev/marketplace-client/internal/domain/errors"
	"github.com/woiladev/marketplace-client/internal/domain/session"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api/clients"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/infrastructure/store"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

type Mode string

const (
	ModeGuest         Mode = "guest"
	ModeAuthenticated Mode = "authenticated"
)

// Manager reconciles the guest cart and the server-backed cart. In guest
// mode every mutation is a synchronous reducer followed by a persist; in
// authenticated mode every mutation is an API round-trip followed by a full
// reload of the authoritative server state, with no optimistic update.
// Mode transitions happen only on identity changes.
type Manager struct {
	mu    sync.RWMutex
	mode  Mode
	items []cart.Item
	// rows mirrors the last server reload; remove/update address rows by
	// the server's row identity, located here by product id.
	rows []clients.ServerCartRow

	api     *clients.CartClient
	durable store.Store
	log     *logger.Logger
}

func NewManager(api *clients.CartClient, durable store.Store, log *logger.Logger) *Manager {
	m := &Manager{
		mode:    ModeGuest,
		api:     api,
		durable: durable,
		log:     log,
	}
	m.loadGuestCart()
	return m
}

// Bind subscribes the cart to identity transitions and applies the current
// identity immediately.
func (m *Manager) Bind(ctx context.Context, sess *appsession.Manager) {
	sess.OnChange(func(user *session.User) {
		m.onIdentityChange(ctx, user)
	})
	if sess.IsAuthenticated() {
		m.onIdentityChange(ctx, sess.User())
	}
}

// onIdentityChange swaps the backing store. The effect runs once per
// transition: a repeated notification for the current mode is ignored.
func (m *Manager) onIdentityChange(ctx context.Context, user *session.User) {
	next := ModeGuest
	if user != nil {
		next = ModeAuthenticated
	}

	m.mu.Lock()
	if m.mode == next {
		m.mu.Unlock()
		return
	}
	m.mode = next
	m.items = nil
	m.rows = nil
	m.mu.Unlock()

	if next == ModeAuthenticated {
		// The guest cart stays untouched in storage; the view becomes
		// whatever the server returns, even when that is empty.
		m.log.Info("Cart switched to server-backed mode")
		m.Reload(ctx)
		return
	}

	m.log.Info("Cart switched to guest mode")
	m.loadGuestCart()
}

func (m *Manager) loadGuestCart() {
	var items []cart.Item
	store.GetJSON(m.durable, store.KeyGuestCart, &items)

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

func (m *Manager) persistGuestCart(items []cart.Item) {
	store.SetJSON(m.durable, store.KeyGuestCart, items)
}

func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

func (m *Manager) Items() []cart.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]cart.Item, len(m.items))
	copy(items, m.items)
	return items
}

func (m *Manager) TotalItems() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cart.TotalItems(m.items)
}

func (m *Manager) TotalPrice() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cart.TotalPrice(m.items)
}

// Reload refreshes the view from its backing store: the server cart in
// authenticated mode, persisted guest state otherwise.
func (m *Manager) Reload(ctx context.Context) commands.Result {
	if m.Mode() != ModeAuthenticated {
		m.loadGuestCart()
		return commands.Ok("")
	}

	rows, res := m.api.List(ctx)
	if !res.Success {
		m.log.Warn("Server cart reload failed", "error", res.Error)
		return commands.Fail(res.Error)
	}
	monitoring.CartReloadsTotal.Inc()

	items := make([]cart.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, cart.Item{
			ID:        row.ProductID,
			Name:      row.Product.Name,
			Price:     row.Product.Price,
			Quantity:  row.Quantity,
			Image:     row.Product.ImageURL,
			Seller:    row.Product.Seller,
			ProductID: row.ProductID,
		})
	}

	m.mu.Lock()
	if m.mode == ModeAuthenticated {
		m.items = items
		m.rows = rows
	}
	m.mu.Unlock()

	return commands.Ok("")
}

// Add puts one unit of the product in the cart, incrementing the quantity
// when the product is already present.
func (m *Manager) Add(ctx context.Context, item cart.Item) commands.Result {
	if m.Mode() == ModeAuthenticated {
		monitoring.CartMutationsTotal.WithLabelValues(string(ModeAuthenticated), "add").Inc()
		res := m.api.Add(ctx, item.ID, 1)
		if !res.Success {
			return commands.Fail(res.Error)
		}
		return m.Reload(ctx)
	}

	monitoring.CartMutationsTotal.WithLabelValues(string(ModeGuest), "add").Inc()
	m.mu.Lock()
	m.items = cart.Add(m.items, item)
	items := m.items
	m.mu.Unlock()

	m.persistGuestCart(items)
	return commands.Ok("Item added to cart")
}

// Remove drops the product from the cart. Removing an absent product is a
// no-op in guest mode and a failed lookup in authenticated mode.
func (m *Manager) Remove(ctx context.Context, productID int) commands.Result {
	if m.Mode() == ModeAuthenticated {
		monitoring.CartMutationsTotal.WithLabelValues(string(ModeAuthenticated), "remove").Inc()
		row, ok := m.findRow(productID)
		if !ok {
			return commands.Fail(domainErrors.ErrItemNotFound.Error())
		}
		res := m.api.Delete(ctx, row.ID)
		if !res.Success {
			return commands.Fail(res.Error)
		}
		return m.Reload(ctx)
	}

	monitoring.CartMutationsTotal.WithLabelValues(string(ModeGuest), "remove").Inc()
	m.mu.Lock()
	m.items = cart.Remove(m.items, productID)
	items := m.items
	m.mu.Unlock()

	m.persistGuestCart(items)
	return commands.Ok("Item removed from cart")
}

// UpdateQuantity sets the quantity directly. A quantity of zero or less is
// equivalent to Remove in both modes.
func (m *Manager) UpdateQuantity(ctx context.Context, productID, quantity int) commands.Result {
	if quantity <= 0 {
		return m.Remove(ctx, productID)
	}

	if m.Mode() == ModeAuthenticated {
		monitoring.CartMutationsTotal.WithLabelValues(string(ModeAuthenticated), "update").Inc()
		row, ok := m.findRow(productID)
		if !ok {
			return commands.Fail(domainErrors.ErrItemNotFound.Error())
		}
		res := m.api.UpdateQuantity(ctx, row.ID, quantity)
		if !res.Success {
			return commands.Fail(res.Error)
		}
		return m.Reload(ctx)
	}

	monitoring.CartMutationsTotal.WithLabelValues(string(ModeGuest), "update").Inc()
	m.mu.Lock()
	m.items = cart.SetQuantity(m.items, productID, quantity)
	items := m.items
	m.mu.Unlock()

	m.persistGuestCart(items)
	return commands.Ok("Cart updated")
}

// Clear empties the cart. In authenticated mode every row is deleted
// server-side before the final reload.
func (m *Manager) Clear(ctx context.Context) commands.Result {
	if m.Mode() == ModeAuthenticated {
		monitoring.CartMutationsTotal.WithLabelValues(string(ModeAuthenticated), "clear").Inc()
		m.mu.RLock()
		rows := make([]clients.ServerCartRow, len(m.rows))
		copy(rows, m.rows)
		m.mu.RUnlock()

		for _, row := range rows {
			if res := m.api.Delete(ctx, row.ID); !res.Success {
				m.log.Warn("Failed to delete cart row", "row_id", row.ID, "error", res.Error)
			}
		}
		return m.Reload(ctx)
	}

	monitoring.CartMutationsTotal.WithLabelValues(string(ModeGuest), "clear").Inc()
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()

	m.persistGuestCart([]cart.Item{})
	return commands.Ok("Cart cleared")
}

// ClearView drops the in-memory view without touching backing stores. The
// checkout flow uses this after the server has already consumed the cart.
func (m *Manager) ClearView() {
	m.mu.Lock()
	m.items = nil
	m.rows = nil
	m.mu.Unlock()
}

func (m *Manager) findRow(productID int) (clients.ServerCartRow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows {
		if row.ProductID == productID {
			return row, true
		}
	}
	return clients.ServerCartRow{}, false
}
