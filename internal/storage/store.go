package storage

import "context"

// Well-known keys used by the ordering core.
const (
	KeyCart   = "cart"
	KeyOrders = "orders"
)

// Store is the key-value layer the ordering core reads and writes.
// Values are JSON-encoded text; a missing key is not an error.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key entirely. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}
