// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/storage"
)

// DBPath returns the database directory used for dataRoot.
func DBPath(dataRoot string) string {
	return filepath.Join(dataRoot, "saved", "embeddings.db")
}

type cache struct {
	backend     *Backend
	locks       storage.KeyLocks
	ownsBackend bool
	logger      *slog.Logger
}

var _ storage.EmbeddingCache = (*cache)(nil)

// NewCache opens the badger embedding cache under dataRoot.
// The returned cache owns its database and closes it on Close.
func NewCache(dataRoot string) (storage.EmbeddingCache, error) {
	backend, err := OpenBackend(DBPath(dataRoot), false)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding database: %w", err)
	}
	return newCache(backend, true), nil
}

// NewCacheWithBackend creates a cache over an existing backend.
// The caller remains responsible for closing the backend.
func NewCacheWithBackend(backend *Backend) storage.EmbeddingCache {
	return newCache(backend, false)
}

func newCache(backend *Backend, owns bool) *cache {
	return &cache{
		backend:     backend,
		ownsBackend: owns,
		logger:      backend.logger.With("component", "badger-cache"),
	}
}

func (c *cache) Save(ctx context.Context, key string, vectors []core.Vector) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := storage.MarshalVectors(vectors)

	unlock := c.locks.Lock(key)
	defer unlock()

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEmbeddingKey(key), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	c.logger.Debug("saved embeddings", "key", key, "vectors", len(vectors), "bytes", len(data))
	return nil
}

func (c *cache) Load(ctx context.Context, key string) ([]core.Vector, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	}, false)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", core.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	vectors, err := storage.UnmarshalVectors(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return vectors, nil
}

func (c *cache) Keys(ctx context.Context) ([]string, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	keys := make([]string, 0)
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if key, ok := cacheKeyFromDBKey(iter.Item().KeyCopy(nil)); ok {
				keys = append(keys, key)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	// badger iterates in byte order, which is already sorted
	return keys, nil
}

func (c *cache) Close() error {
	if !c.ownsBackend || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}
