package parser

import (
	"fmt"
	"slices"
	"sync"

	"github.com/poiesic/udmine/core"
)

// Registry maps source names to parsers. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	text       map[string]TextParser
	structured map[string]StructuredParser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		text:       make(map[string]TextParser),
		structured: make(map[string]StructuredParser),
	}
}

// RegisterText registers p for source, replacing any previous text parser.
func (r *Registry) RegisterText(source string, p TextParser) error {
	if err := checkSource(source, p == nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text[source] = p
	return nil
}

// RegisterStructured registers p for source, replacing any previous structured parser.
func (r *Registry) RegisterStructured(source string, p StructuredParser) error {
	if err := checkSource(source, p == nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.structured[source] = p
	return nil
}

// Text returns the text parser for source, or core.ErrParserUnavailable.
func (r *Registry) Text(source string) (TextParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.text[source]
	if !ok {
		return nil, fmt.Errorf("%w: no text parser for %q", core.ErrParserUnavailable, source)
	}
	return p, nil
}

// Structured returns the structured parser for source, or core.ErrParserUnavailable.
func (r *Registry) Structured(source string) (StructuredParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.structured[source]
	if !ok {
		return nil, fmt.Errorf("%w: no structured parser for %q", core.ErrParserUnavailable, source)
	}
	return p, nil
}

// Sources returns every registered source name, sorted and deduplicated.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]string, 0, len(r.text)+len(r.structured))
	for s := range r.text {
		sources = append(sources, s)
	}
	for s := range r.structured {
		sources = append(sources, s)
	}
	slices.Sort(sources)
	return slices.Compact(sources)
}

func checkSource(source string, nilParser bool) error {
	if !core.ValidKey(source) {
		return fmt.Errorf("%w: source %q", core.ErrEmptyKey, source)
	}
	if nilParser {
		return fmt.Errorf("parser for %q is nil", source)
	}
	return nil
}
