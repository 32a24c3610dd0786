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


package mining

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/udmine/ai"
	"github.com/poiesic/udmine/catalog"
	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/identity"
	"github.com/poiesic/udmine/parser"
	"github.com/poiesic/udmine/storage"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultEmbedTimeout = 30 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryDelay   = 100 * time.Millisecond
)

// Miner resolves every catalog category for one user's export.
// A Miner may run many times; each run is independent.
type Miner struct {
	identity *identity.UserIdentity
	catalog  *catalog.Catalog
	registry *parser.Registry
	embedder ai.Embedder
	cache    storage.EmbeddingCache

	pool         *ants.Pool
	parallelism  int
	limiter      *rate.Limiter
	embedTimeout time.Duration
	maxAttempts  int
	retryDelay   time.Duration
	include      []string
	exclude      []string
	progress     io.Writer
	now          func() time.Time
	logger       *slog.Logger
}

// Report is the outcome of one run.
type Report struct {
	Results *core.ResultSet
	Summary *Summary
}

// NewMiner creates a miner. The caller must call Release when done.
func NewMiner(
	id *identity.UserIdentity,
	cat *catalog.Catalog,
	reg *parser.Registry,
	embedder ai.Embedder,
	cache storage.EmbeddingCache,
	opts ...Option,
) (*Miner, error) {
	switch {
	case id == nil:
		return nil, ErrIdentityRequired
	case cat == nil:
		return nil, ErrCatalogRequired
	case reg == nil:
		return nil, ErrRegistryRequired
	case embedder == nil:
		return nil, ErrEmbedderRequired
	case cache == nil:
		return nil, ErrCacheRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Miner{
		identity:     id,
		catalog:      cat,
		registry:     reg,
		embedder:     embedder,
		cache:        cache,
		pool:         pool,
		parallelism:  runtime.NumCPU(),
		embedTimeout: defaultEmbedTimeout,
		maxAttempts:  defaultMaxAttempts,
		retryDelay:   defaultRetryDelay,
		now:          time.Now,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}
	m.logger = m.logger.With("component", "miner", "user", id.User)

	return m, nil
}

// Release releases the embedding worker pool.
// The miner should not be used after calling Release.
func (m *Miner) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// Mine runs the miner and returns the result set.
func (m *Miner) Mine(ctx context.Context) (*core.ResultSet, error) {
	report, err := m.Run(ctx)
	if err != nil {
		return nil, err
	}
	return report.Results, nil
}

// Run resolves every category and merge and reports per-category counts.
//
// Only a missing data root or the end of ctx fails the run. Every other
// failure is confined to its category, which is reported as degraded.
func (m *Miner) Run(ctx context.Context) (*Report, error) {
	if err := identity.CheckDataRoot(m.identity.DataRoot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := ulid.Make().String()
	logger := m.logger.With("run", runID)
	started := time.Now()
	now := m.now()

	categories := m.catalog.Categories()
	merges := m.catalog.Merges()
	logger.Info("mining started", "data_root", m.identity.DataRoot, "categories", len(categories), "merges", len(merges))

	var tracker *ProgressTracker
	if m.progress != nil {
		tracker = NewProgressTracker(m.progress, len(categories)+len(merges))
		tracker.Start()
	}

	// one slot per category, written by exactly one goroutine
	entries := make([]*core.Entry, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.parallelism)
	for i, cat := range categories {
		if !m.selected(cat.Key) {
			entries[i] = skippedEntry(cat)
			if tracker != nil {
				tracker.Increment(1)
			}
			continue
		}
		g.Go(func() error {
			entry, err := m.resolve(gctx, logger, cat, now)
			if err != nil {
				return err
			}
			entries[i] = entry
			if tracker != nil {
				tracker.Increment(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byKey := make(map[string]*core.Entry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}

	results := core.NewResultSet(len(entries) + len(merges))
	for _, e := range entries {
		if err := results.Put(e); err != nil {
			return nil, err
		}
	}
	for _, mg := range merges {
		entry := mergeEntry(mg, byKey[mg.Left], byKey[mg.Right])
		if entry.Err != nil {
			logger.Warn("merge degraded", "label", mg.Label, "err", entry.Err)
		}
		if err := results.Put(entry); err != nil {
			return nil, err
		}
		if tracker != nil {
			tracker.Increment(1)
		}
	}
	if tracker != nil {
		tracker.Finish()
	}

	summary := newSummary(runID, m.identity.User, started, results)
	for _, c := range summary.Categories {
		logger.Info("category mined", "label", c.Label, "items", c.Count, "resolution", c.Resolution, "provenance", c.Provenance)
	}
	logger.Info("mining complete", "elapsed", summary.Elapsed, "degraded", summary.Degraded())

	return &Report{Results: results, Summary: summary}, nil
}
