package parser

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/udmine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textOf(items ...string) TextParser {
	return TextParserFunc(func(context.Context, string, string) (core.RecordSet, error) {
		return core.PresentItems(items...), nil
	})
}

func TestRegistry_TextLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterText("chat", textOf("hi")))

	p, err := r.Text("chat")
	require.NoError(t, err)
	set, err := p.Parse(context.Background(), "u", "/data")
	require.NoError(t, err)
	assert.Equal(t, core.Present, set.State)
	assert.Equal(t, []string{"hi"}, set.Items)

	_, err = r.Text("mail")
	assert.ErrorIs(t, err, core.ErrParserUnavailable)
}

func TestRegistry_KindsAreSeparate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterStructured("fit", StructuredParserFunc(
		func(context.Context, string, string) (core.AggregateSet, error) {
			return core.AggregateSet{State: core.Empty}, nil
		})))

	_, err := r.Text("fit")
	assert.ErrorIs(t, err, core.ErrParserUnavailable)

	p, err := r.Structured("fit")
	require.NoError(t, err)
	set, err := p.Parse(context.Background(), "u", "/data")
	require.NoError(t, err)
	assert.Equal(t, core.Empty, set.State)
}

func TestRegistry_RejectsBadRegistrations(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.RegisterText("Bad Source", textOf()), core.ErrEmptyKey)
	assert.Error(t, r.RegisterText("chat", nil))
	assert.Error(t, r.RegisterStructured("fit", nil))
}

func TestRegistry_Sources(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterText("mail", textOf()))
	require.NoError(t, r.RegisterText("chat", textOf()))
	require.NoError(t, r.RegisterStructured("fit", StructuredParserFunc(
		func(context.Context, string, string) (core.AggregateSet, error) { return core.AggregateSet{}, nil })))
	require.NoError(t, r.RegisterStructured("chat", StructuredParserFunc(
		func(context.Context, string, string) (core.AggregateSet, error) { return core.AggregateSet{}, nil })))

	assert.Equal(t, []string{"chat", "fit", "mail"}, r.Sources())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.RegisterText("chat", textOf("x")))
		}()
		go func() {
			defer wg.Done()
			r.Text("chat")
			r.Sources()
		}()
	}
	wg.Wait()
}
