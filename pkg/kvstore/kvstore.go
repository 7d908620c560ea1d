package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Store is a short-lived key-value store with per-key TTL. Putting an
// existing key overwrites its value and restarts the TTL.
type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Forget(ctx context.Context, key string) error
}

// Denylist records revoked token IDs. An entry's TTL must be no shorter
// than the token's remaining natural expiry, so a dropped entry can never
// cause a false "not revoked".
type Denylist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Has(ctx context.Context, jti string) (bool, error)
}
