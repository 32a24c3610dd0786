package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/parser/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"udmine"}, args...))
	return stdout.String(), stderr.String(), err
}

func exportRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	path := snapshot.Path(root, core.ProviderInstagram, "insta_ads")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`["running shoes", "coffee beans"]`), 0o644))
	return root
}

func findFlag[T cli.Flag](flags []cli.Flag, name string) T {
	var zero T
	for _, f := range flags {
		if typed, ok := f.(T); ok && f.Names()[0] == name {
			return typed
		}
	}
	return zero
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	t.Run("log-level defaults to info", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](app.Flags, "log-level")
		require.NotNil(t, f)
		assert.Equal(t, "info", f.Value)
	})

	t.Run("backend has no default so config wins", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](app.Flags, "backend")
		require.NotNil(t, f)
		assert.Empty(t, f.Value)
	})

	t.Run("mine reports progress by default", func(t *testing.T) {
		f := findFlag[*cli.BoolFlag](app.Command("mine").Flags, "progress")
		require.NotNil(t, f)
		assert.True(t, f.Value)
	})
}

func TestSetupLogger(t *testing.T) {
	_, _, err := runApp(t, "--log-level", "loud", "categories")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, _, err = runApp(t, "--log-level", "DEBUG", "categories")
	assert.NoError(t, err)
}

func TestCategoriesCommand(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		out, _, err := runApp(t, "categories")
		require.NoError(t, err)
		assert.Contains(t, out, "insta_ads")
		assert.Contains(t, out, "fit_distance")
		assert.Contains(t, out, "nearby_places")
	})

	t.Run("one provider", func(t *testing.T) {
		out, _, err := runApp(t, "categories", "--provider", "Facebook")
		require.NoError(t, err)
		assert.Contains(t, out, "facebook")
		assert.NotContains(t, out, "insta_ads")
		assert.NotContains(t, out, "nearby_places")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, _, err := runApp(t, "categories", "--provider", "myspace")
		assert.Error(t, err)
	})
}

func TestMineCommand(t *testing.T) {
	root := exportRoot(t)

	out, stderr, err := runApp(t, "--log-level", "error", "--data-root", root, "--user", "alice",
		"mine", "--only", "insta_ads", "--progress=false")
	require.NoError(t, err)

	var results map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &results))

	var vectors [][]float32
	require.NoError(t, json.Unmarshal(results["Insta Advertisements Data"], &vectors))
	assert.Len(t, vectors, 2)

	var totals map[string]float64
	require.NoError(t, json.Unmarshal(results["Fit distance"], &totals))
	assert.Zero(t, totals["total"])

	assert.Contains(t, stderr, "User: alice")
	assert.Contains(t, stderr, "Insta Advertisements Data: 2 item(s).")

	t.Run("cache ls lists the saved key", func(t *testing.T) {
		out, _, err := runApp(t, "--data-root", root, "--user", "alice", "cache", "ls")
		require.NoError(t, err)
		assert.Equal(t, "insta_ads", strings.TrimSpace(out))
	})
}

func TestMineCommand_OutputFile(t *testing.T) {
	root := exportRoot(t)
	path := filepath.Join(t.TempDir(), "results.json")

	out, _, err := runApp(t, "--log-level", "error", "--data-root", root, "--user", "alice", "--backend", "badger",
		"mine", "--only", "insta_*", "--skip", "insta_messages", "--progress=false", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Insta Advertisements Data")
}

func TestMineCommand_ConfigFile(t *testing.T) {
	root := exportRoot(t)
	cfgPath := filepath.Join(t.TempDir(), "udmine.yaml")
	yaml := "data_root: " + root + "\nuser: carol\nmining:\n  include: [insta_ads]\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	_, stderr, err := runApp(t, "--log-level", "error", "--config", cfgPath, "mine", "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, stderr, "User: carol")
}

func TestMineCommand_MissingDataRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, _, err := runApp(t, "--log-level", "error", "--data-root", missing, "--user", "alice", "mine")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataRootMissing)
}
