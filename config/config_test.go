package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/udmine/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.DataRoot)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, ai.EngineLocal, cfg.Embedding.Engine)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
data_root: /exports/alice
user: alice
cache:
  backend: Badger
embedding:
  dimensions: 128
  timeout: 5s
  requests_per_second: 20
mining:
  pool_size: 4
  include: ["insta_*", "fb_*"]
  exclude: [fb_messages]
`))
	require.NoError(t, err)

	assert.Equal(t, "/exports/alice", cfg.DataRoot)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, BackendBadger, cfg.Cache.Backend)
	assert.Equal(t, 128, cfg.Embedding.Dimensions)
	assert.Equal(t, 5*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, 20.0, cfg.Embedding.RequestsPerSecond)
	assert.Equal(t, "bert-base-uncased", cfg.Embedding.EmbeddingModel, "unset fields keep defaults")
	assert.Equal(t, 4, cfg.Mining.PoolSize)
	assert.Equal(t, []string{"insta_*", "fb_*"}, cfg.Mining.Include)
	assert.Equal(t, []string{"fb_messages"}, cfg.Mining.Exclude)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "colour: blue\n"},
		{"bad backend", "cache:\n  backend: redis\n"},
		{"bad engine", "embedding:\n  engine: magic\n"},
		{"negative pool", "mining:\n  pool_size: -1\n"},
		{"not yaml", "data_root: [unterminated\n"},
		{"blank data root", "data_root: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_NullEmbedding(t *testing.T) {
	cfg, err := Parse([]byte("embedding: null\n"))
	require.NoError(t, err)
	assert.Equal(t, ai.EngineLocal, cfg.Embedding.Engine)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "udmine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: bob\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.User)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
