package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/udmine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ExplicitUser(t *testing.T) {
	root := t.TempDir()
	id, err := New(root, "alice", Static("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "alice", id.User)
	assert.Equal(t, root, id.DataRoot)
}

func TestNew_ResolvesUser(t *testing.T) {
	id, err := New(t.TempDir(), "", Static("bob"))
	require.NoError(t, err)
	assert.Equal(t, "bob", id.User)
}

func TestNew_ResolverError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(t.TempDir(), "", ResolverFunc(func(string) (string, error) { return "", boom }))
	assert.ErrorIs(t, err, boom)
}

func TestNew_DataRootMissing(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name string
		root string
	}{
		{"empty", ""},
		{"does not exist", filepath.Join(t.TempDir(), "nope")},
		{"regular file", file},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.root, "alice", nil)
			assert.ErrorIs(t, err, core.ErrDataRootMissing)
		})
	}
}

func TestFileResolver_ReadsUsernameFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, UsernameFile), []byte("\n  carol  \nother\n"), 0o644))

	name, err := FileResolver{}.ResolveUser(root)
	require.NoError(t, err)
	assert.Equal(t, "carol", name)
}

func TestFileResolver_FallsBackToOSUser(t *testing.T) {
	name, err := FileResolver{}.ResolveUser(t.TempDir())
	if err != nil {
		t.Skipf("no OS user available: %v", err)
	}
	assert.NotEmpty(t, name)
}

func TestUserIdentity_String(t *testing.T) {
	id := &UserIdentity{DataRoot: "/data", User: "dave"}
	assert.Equal(t, "data_root: /data\nuser: dave\n", id.String())
}
