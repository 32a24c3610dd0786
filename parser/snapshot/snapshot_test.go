package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/udmine/core"
	"github.com/poiesic/udmine/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, root string, provider core.Provider, source, body string) {
	t.Helper()
	path := Path(root, provider, source)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestTextParser_States(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeSnapshot(t, root, core.ProviderGoogle, "chat", `["hello", "world"]`)
	writeSnapshot(t, root, core.ProviderGoogle, "mail", `[]`)
	writeSnapshot(t, root, core.ProviderGoogle, "pay", `{"not": "a list"}`)

	tests := []struct {
		source  string
		state   core.State
		items   []string
		wantErr bool
	}{
		{"chat", core.Present, []string{"hello", "world"}, false},
		{"mail", core.Empty, nil, false},
		{"movies", core.Unavailable, nil, false},
		{"pay", core.Unavailable, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			set, err := TextParser{Provider: core.ProviderGoogle, Source: tt.source}.Parse(ctx, "u", root)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.state, set.State)
			assert.Equal(t, tt.items, set.Items)
		})
	}
}

func TestStructuredParser(t *testing.T) {
	root := t.TempDir()
	writeSnapshot(t, root, core.ProviderGoogle, "fit", `[
		{"measures": {"distance": 5, "calories": 300}, "dates": ["2020-01-01", "2020-02-01T08:00:00Z"]},
		{"measures": {"distance": 2}, "dates": []}
	]`)

	set, err := StructuredParser{Provider: core.ProviderGoogle, Source: "fit"}.Parse(context.Background(), "u", root)
	require.NoError(t, err)
	require.Equal(t, core.Present, set.State)
	require.Len(t, set.Records, 2)

	assert.Equal(t, 300.0, set.Records[0].Measure("calories"))
	latest, ok := set.Records[0].LatestDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 2, 1, 8, 0, 0, 0, time.UTC), latest)

	_, ok = set.Records[1].LatestDate()
	assert.False(t, ok)
}

func TestStructuredParser_BadDate(t *testing.T) {
	root := t.TempDir()
	writeSnapshot(t, root, core.ProviderGoogle, "travel", `[{"measures": {"distance": 1}, "dates": ["yesterday"]}]`)

	set, err := StructuredParser{Provider: core.ProviderGoogle, Source: "travel"}.Parse(context.Background(), "u", root)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, core.Unavailable, set.State)
}

func TestStructuredParser_EmptyAndMissing(t *testing.T) {
	root := t.TempDir()
	writeSnapshot(t, root, core.ProviderGoogle, "fit", `[]`)

	set, err := StructuredParser{Provider: core.ProviderGoogle, Source: "fit"}.Parse(context.Background(), "u", root)
	require.NoError(t, err)
	assert.Equal(t, core.Empty, set.State)

	set, err = StructuredParser{Provider: core.ProviderGoogle, Source: "travel"}.Parse(context.Background(), "u", root)
	require.NoError(t, err)
	assert.Equal(t, core.Unavailable, set.State)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2019-12-31 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("31/12/2019")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	reg := parser.NewRegistry()
	categories := []core.Category{
		{Key: "chat", Label: "Chat", Provider: core.ProviderGoogle, Kind: core.KindText},
		{Key: "fit_distance", Label: "Fit distance", Provider: core.ProviderGoogle, Kind: core.KindStructured, Source: "fit", Measure: "distance"},
		{Key: "fit_calories", Label: "Fit calories", Provider: core.ProviderGoogle, Kind: core.KindStructured, Source: "fit", Measure: "calories"},
	}
	require.NoError(t, Register(reg, categories))

	assert.Equal(t, []string{"chat", "fit"}, reg.Sources())
	_, err := reg.Text("chat")
	assert.NoError(t, err)
	_, err = reg.Structured("fit")
	assert.NoError(t, err)
}

func TestParse_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := TextParser{Provider: core.ProviderFacebook, Source: "fb_ads"}.Parse(ctx, "u", t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, core.Unavailable, set.State)
}
