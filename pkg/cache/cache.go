// Package cache stores computed layouts between renders.
//
// Layout is the only expensive stage of a render, and its input is fully
// described by the lineage graph and the spacing options. [Keyer.LayoutKey]
// turns those into a key; the pipeline stores the JSON-encoded layout result
// under it.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for several host servers
//
// Backends that can drop all their entries also implement [Clearer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero ttl means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can remove every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
