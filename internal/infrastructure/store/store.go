package store

import (
	"encoding/json"

	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
)

// Storage keys used by the session and cart layers. Everything the client
// persists lives under one of these.
const (
	KeyToken        = "auth_token"
	KeyUser         = "auth_user"
	KeyGuestCart    = "guest_cart"
	KeyPendingOps   = "pending_ops"
	KeySubscription = "active_subscription"
)

// Store is the browser-storage analogue. A missing key and a failed read are
// indistinguishable: both return ok=false. Writes never fail from the
// caller's point of view; backend errors are logged and counted, and the
// operation degrades to a no-op. Callers must treat every read as possibly
// missing even after an apparently successful write.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Remove(key string)
	Clear()
}

// Scopes pairs the two storage lifetimes: Durable survives restarts,
// Session lives for the process only.
type Scopes struct {
	Durable Store
	Session Store
}

// GetJSON reads and decodes a stored JSON value. A decode failure counts as
// a miss (and as a store failure), matching the never-throw contract.
func GetJSON(s Store, key string, v any) bool {
	data, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		monitoring.StoreFailuresTotal.WithLabelValues("codec", "decode").Inc()
		return false
	}
	return true
}

// SetJSON encodes and stores a JSON value.
func SetJSON(s Store, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		monitoring.StoreFailuresTotal.WithLabelValues("codec", "encode").Inc()
		return
	}
	s.Set(key, data)
}
