package contracts

import (
	"context"
	"time"
)

// KeyValueStore is the local draft cache. Get returns "" with a nil error
// when the key is absent. Set stores value as JSON.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Delete(ctx context.Context, key string) error
}
