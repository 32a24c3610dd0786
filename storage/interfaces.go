package storage

import (
	"context"

	"github.com/poiesic/udmine/core"
)

// EmbeddingCache is a durable per-category store of embedding vectors.
// Implementations must be thread-safe and support concurrent access.
// Keys are independent units; no cross-key transactionality is provided.
type EmbeddingCache interface {
	// Save overwrites the entry for key with exactly vectors, in order.
	// Concurrent readers of the same key see either the old or the new
	// complete entry, never a partial write. Writes to one key are
	// serialized; writes to different keys may proceed concurrently.
	Save(ctx context.Context, key string, vectors []core.Vector) error

	// Load returns the vectors last saved under key.
	// Returns core.ErrCacheMiss if no entry exists and
	// core.ErrSerialization if the entry is corrupt.
	Load(ctx context.Context, key string) ([]core.Vector, error)

	// Keys lists the keys that currently have an entry, sorted.
	Keys(ctx context.Context) ([]string, error)

	// Close releases resources held by the cache.
	Close() error
}
