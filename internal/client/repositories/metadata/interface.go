// Package metadata stores small key/value records on the client: the bearer
// token, the user snapshot and the composite auth entry. Get returns
// (nil, nil) for a missing key.
package metadata

import (
	"context"
)

// Repository is written in batches only: the token store always updates
// its keys together.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
	// DeleteMany removes all keys atomically. Missing keys are ignored.
	DeleteMany(ctx context.Context, keys ...string) error
}
