// Package metadata is the local key/value table backing client state that
// must survive restarts: the credential pair, when it was saved and the
// last username used to sign in.
package metadata

import (
	"context"
)

// Repository reads and writes raw values by key. Get returns (nil, nil)
// when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
