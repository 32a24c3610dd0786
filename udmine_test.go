package udmine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/udmine/ai/mock"
	"github.com/poiesic/udmine/config"
	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/identity"
	"github.com/poiesic/udmine/mining"
	"github.com/poiesic/udmine/parser/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, root string, provider core.Provider, source, body string) {
	t.Helper()
	path := snapshot.Path(root, provider, source)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataRoot = t.TempDir()
	cfg.User = "alice"
	cfg.Cache.Backend = backend
	cfg.Mining.Include = []string{"insta_ads"}
	return cfg
}

func TestNewSession(t *testing.T) {
	t.Run("defaults to the local engine and file cache", func(t *testing.T) {
		s, err := NewSession(testConfig(t, config.BackendFile))
		require.NoError(t, err)
		defer s.Close()

		assert.Equal(t, "alice", s.Identity().User)
		assert.NotNil(t, s.Cache())
		assert.Greater(t, s.Catalog().Len(), 60)
		assert.DirExists(t, filepath.Join(s.Config().DataRoot, "saved", "embeddings"))
	})

	t.Run("badger backend", func(t *testing.T) {
		s, err := NewSession(testConfig(t, config.BackendBadger))
		require.NoError(t, err)
		defer s.Close()
		assert.DirExists(t, filepath.Join(s.Config().DataRoot, "saved", "embeddings.db"))
	})

	t.Run("missing data root", func(t *testing.T) {
		cfg := testConfig(t, config.BackendFile)
		cfg.DataRoot = filepath.Join(cfg.DataRoot, "absent")
		s, err := NewSession(cfg)
		assert.ErrorIs(t, err, core.ErrDataRootMissing)
		assert.Nil(t, s)
	})

	t.Run("user from resolver", func(t *testing.T) {
		cfg := testConfig(t, config.BackendFile)
		cfg.User = ""
		s, err := NewSession(cfg, WithResolver(identity.Static("bob")))
		require.NoError(t, err)
		defer s.Close()
		assert.Equal(t, "bob", s.Identity().User)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t, "redis")
		_, err := NewSession(cfg)
		assert.Error(t, err)
	})

	t.Run("invalid filter pattern", func(t *testing.T) {
		cfg := testConfig(t, config.BackendFile)
		cfg.Mining.Include = []string{"insta_[ads"}
		_, err := NewSession(cfg)
		assert.ErrorIs(t, err, mining.ErrInvalidPattern)
	})
}

func TestSession_Run(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			writeSnapshot(t, cfg.DataRoot, core.ProviderInstagram, "insta_ads", `["a", "bb", "ccc"]`)

			s, err := NewSession(cfg, WithEmbedder(mock.NewLengthEmbedder()))
			require.NoError(t, err)

			report, err := s.Run(context.Background())
			require.NoError(t, err)

			entry, ok := report.Results.Get("Insta Advertisements Data")
			require.True(t, ok)
			assert.Equal(t, core.ResolutionEmbedded, entry.Resolution)
			assert.Equal(t, []core.Vector{{1}, {2}, {3}}, entry.Vectors)

			keys, err := s.Cache().Keys(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"insta_ads"}, keys)
			require.NoError(t, s.Close())

			// The snapshot is gone; a second session serves the cached vectors.
			require.NoError(t, os.Remove(snapshot.Path(cfg.DataRoot, core.ProviderInstagram, "insta_ads")))
			s, err = NewSession(cfg, WithEmbedder(mock.NewLengthEmbedder()))
			require.NoError(t, err)
			defer s.Close()

			results, err := s.Mine(context.Background())
			require.NoError(t, err)
			entry, ok = results.Get("Insta Advertisements Data")
			require.True(t, ok)
			assert.Equal(t, core.ResolutionCached, entry.Resolution)
			assert.Equal(t, []core.Vector{{1}, {2}, {3}}, entry.Vectors)
		})
	}
}

func TestSession_LocalEngineEndToEnd(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	cfg.Embedding.Dimensions = 16
	writeSnapshot(t, cfg.DataRoot, core.ProviderInstagram, "insta_ads", `["running shoes", "", "coffee beans"]`)

	s, err := NewSession(cfg)
	require.NoError(t, err)
	defer s.Close()

	results, err := s.Mine(context.Background())
	require.NoError(t, err)

	entry, ok := results.Get("Insta Advertisements Data")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Count())
	assert.Equal(t, 1, entry.Dropped)
	for _, v := range entry.Vectors {
		assert.Len(t, v, 16)
	}
}
