// Package file implements storage.EmbeddingCache with one file per key.
//
// Entries live at <dataRoot>/saved/embeddings/<key>.vec. Saves are written
// to a temporary file in the same directory, synced and renamed over the
// entry, so a reader sees either the previous entry or the new one.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/storage"
)

const (
	entryExt = ".vec"
	dirPerm  = 0o755
	filePerm = 0o644
)

// Dir returns the directory holding cache entries for dataRoot.
func Dir(dataRoot string) string {
	return filepath.Join(dataRoot, "saved", "embeddings")
}

// EntryPath returns the file backing key under dataRoot.
func EntryPath(dataRoot, key string) string {
	return filepath.Join(Dir(dataRoot), key+entryExt)
}

type cache struct {
	dataRoot string
	dir      string
	locks    storage.KeyLocks
	closed   atomic.Bool
	logger   *slog.Logger
}

var _ storage.EmbeddingCache = (*cache)(nil)

// New opens the file cache rooted at dataRoot, creating the entry
// directory if needed.
func New(dataRoot string) (storage.EmbeddingCache, error) {
	dir := Dir(dataRoot)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &cache{
		dataRoot: dataRoot,
		dir:      dir,
		logger:   slog.Default().With("component", "file-cache", "dir", dir),
	}, nil
}

func (c *cache) Save(ctx context.Context, key string, vectors []core.Vector) error {
	if c.closed.Load() {
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

	tmp, err := os.CreateTemp(c.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", key, err)
	}
	if err := os.Rename(tmpName, EntryPath(c.dataRoot, key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	committed = true

	c.syncDir()
	c.logger.Debug("saved embeddings", "key", key, "vectors", len(vectors), "bytes", len(data))
	return nil
}

func (c *cache) Load(ctx context.Context, key string) ([]core.Vector, error) {
	if c.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(EntryPath(c.dataRoot, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	vectors, err := storage.UnmarshalVectors(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return vectors, nil
}

func (c *cache) Keys(ctx context.Context) ([]string, error) {
	if c.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entryExt) {
			continue
		}
		key := strings.TrimSuffix(e.Name(), entryExt)
		if core.ValidKey(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (c *cache) Close() error {
	c.closed.Store(true)
	return nil
}

// syncDir flushes the rename to disk. Not every platform supports syncing
// a directory, so failures are only logged.
func (c *cache) syncDir() {
	d, err := os.Open(c.dir)
	if err != nil {
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		c.logger.Debug("directory sync failed", "error", err)
	}
}
