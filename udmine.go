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


package udmine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/udmine/ai"
	"github.com/poiesic/udmine/ai/local"
	"github.com/poiesic/udmine/ai/openai"
	"github.com/poiesic/udmine/catalog"
	"github.com/poiesic/udmine/config"
	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/identity"
	"github.com/poiesic/udmine/mining"
	"github.com/poiesic/udmine/parser"
	"github.com/poiesic/udmine/parser/snapshot"
	"github.com/poiesic/udmine/storage"
	"github.com/poiesic/udmine/storage/badger"
	"github.com/poiesic/udmine/storage/file"
)

// Session wires one user's export to a cache, an embedder and a miner.
type Session struct {
	config   *config.Config
	identity *identity.UserIdentity
	catalog  *catalog.Catalog
	registry *parser.Registry
	cache    storage.EmbeddingCache
	embedder ai.Embedder
	miner    *mining.Miner
	logger   *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	embedder   ai.Embedder
	resolver   identity.Resolver
	catalog    *catalog.Catalog
	registry   *parser.Registry
	miningOpts []mining.Option
}

// WithEmbedder overrides the engine selected by the configuration.
func WithEmbedder(e ai.Embedder) SessionOption {
	return func(o *sessionOptions) {
		o.embedder = e
	}
}

// WithResolver sets how the user is inferred when the configuration names none.
func WithResolver(r identity.Resolver) SessionOption {
	return func(o *sessionOptions) {
		o.resolver = r
	}
}

// WithCatalog replaces the default category table.
func WithCatalog(c *catalog.Catalog) SessionOption {
	return func(o *sessionOptions) {
		o.catalog = c
	}
}

// WithRegistry replaces the snapshot parsers.
func WithRegistry(r *parser.Registry) SessionOption {
	return func(o *sessionOptions) {
		o.registry = r
	}
}

// WithMiningOptions appends miner options after those derived from the
// configuration, so they take precedence.
func WithMiningOptions(opts ...mining.Option) SessionOption {
	return func(o *sessionOptions) {
		o.miningOpts = append(o.miningOpts, opts...)
	}
}

// NewSession opens a session for cfg. A nil cfg means config.Default().
// A missing data root is an error wrapping core.ErrDataRootMissing.
func NewSession(cfg *config.Config, opts ...SessionOption) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &sessionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	id, err := identity.New(cfg.DataRoot, cfg.User, options.resolver)
	if err != nil {
		return nil, err
	}

	cat := options.catalog
	if cat == nil {
		cat = catalog.Default()
	}

	reg := options.registry
	if reg == nil {
		reg = parser.NewRegistry()
		if err := snapshot.Register(reg, cat.Categories()); err != nil {
			return nil, err
		}
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = newEmbedder(cfg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	}

	cache, err := openCache(cfg.Cache.Backend, id.DataRoot)
	if err != nil {
		return nil, err
	}

	miner, err := mining.NewMiner(id, cat, reg, embedder, cache, append(minerOptions(cfg), options.miningOpts...)...)
	if err != nil {
		cache.Close()
		return nil, err
	}

	return &Session{
		config:   cfg,
		identity: id,
		catalog:  cat,
		registry: reg,
		cache:    cache,
		embedder: embedder,
		miner:    miner,
		logger:   slog.Default().With("component", "session", "user", id.User),
	}, nil
}

func newEmbedder(cfg *ai.Config) (ai.Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Engine == ai.EngineOpenAI {
		return openai.NewEmbedder(cfg)
	}
	return local.NewEmbedder(cfg)
}

func openCache(backend, dataRoot string) (storage.EmbeddingCache, error) {
	switch backend {
	case config.BackendBadger:
		return badger.NewCache(dataRoot)
	case config.BackendFile, "":
		return file.New(dataRoot)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

func minerOptions(cfg *config.Config) []mining.Option {
	opts := []mining.Option{
		mining.WithEmbedTimeout(cfg.Embedding.Timeout),
		mining.WithRetry(cfg.Embedding.MaxRetries, cfg.Embedding.RetryDelay),
		mining.WithRateLimit(cfg.Embedding.RequestsPerSecond, cfg.Mining.Burst),
	}
	if cfg.Mining.PoolSize > 0 {
		opts = append(opts, mining.WithPoolSize(cfg.Mining.PoolSize))
	}
	if cfg.Mining.Parallelism > 0 {
		opts = append(opts, mining.WithParallelism(cfg.Mining.Parallelism))
	}
	if len(cfg.Mining.Include) > 0 {
		opts = append(opts, mining.WithFilter(cfg.Mining.Include...))
	}
	if len(cfg.Mining.Exclude) > 0 {
		opts = append(opts, mining.WithExclude(cfg.Mining.Exclude...))
	}
	return opts
}

// Close releases the miner and closes the cache.
func (s *Session) Close() error {
	s.miner.Release()
	if err := s.cache.Close(); err != nil {
		s.logger.Error("error closing embedding cache", "err", err)
		return err
	}
	return nil
}

// Mine resolves every category and returns the result set.
func (s *Session) Mine(ctx context.Context) (*core.ResultSet, error) {
	return s.miner.Mine(ctx)
}

// Run resolves every category and returns the results with a summary.
func (s *Session) Run(ctx context.Context) (*mining.Report, error) {
	return s.miner.Run(ctx)
}

func (s *Session) Identity() *identity.UserIdentity {
	return s.identity
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Session) Cache() storage.EmbeddingCache {
	return s.cache
}

func (s *Session) Config() *config.Config {
	return s.config
}
