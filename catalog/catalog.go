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


// Package catalog holds the static table of categories udmine mines.
//
// The table replaces per-category control flow: the miner iterates the
// catalog and applies one resolution routine to every entry. Merges are
// declared here too and run after all of their operands have resolved.
package catalog

import (
	"errors"
	"fmt"

	"github.com/poiesic/udmine/core"
)

var (
	// ErrDuplicateCategory indicates two categories share a key or label.
	ErrDuplicateCategory = errors.New("duplicate category")

	// ErrInvalidMerge indicates a merge whose operands are missing or not text.
	ErrInvalidMerge = errors.New("invalid merge")
)

// Merge declares a derived text entry whose vectors are Left followed by Right.
type Merge struct {
	Key   string
	Label string
	Left  string
	Right string
}

// Catalog is an immutable, ordered set of categories and merges.
type Catalog struct {
	categories []core.Category
	merges     []Merge
	byKey      map[string]int
}

// New validates categories and merges and builds a catalog.
// Keys and labels must be unique across categories and merges; merge
// operands must name text categories.
func New(categories []core.Category, merges []Merge) (*Catalog, error) {
	c := &Catalog{
		categories: make([]core.Category, 0, len(categories)),
		merges:     make([]Merge, 0, len(merges)),
		byKey:      make(map[string]int, len(categories)),
	}
	labels := make(map[string]bool, len(categories)+len(merges))

	for _, cat := range categories {
		if err := core.ValidateCategory(cat); err != nil {
			return nil, err
		}
		if _, ok := c.byKey[cat.Key]; ok {
			return nil, fmt.Errorf("%w: key %q", ErrDuplicateCategory, cat.Key)
		}
		if labels[cat.Label] {
			return nil, fmt.Errorf("%w: label %q", ErrDuplicateCategory, cat.Label)
		}
		c.byKey[cat.Key] = len(c.categories)
		labels[cat.Label] = true
		c.categories = append(c.categories, cat)
	}

	mergeKeys := make(map[string]bool, len(merges))
	for _, m := range merges {
		if !core.ValidKey(m.Key) || m.Label == "" {
			return nil, fmt.Errorf("%w: %q needs a valid key and a label", ErrInvalidMerge, m.Key)
		}
		if _, ok := c.byKey[m.Key]; ok || mergeKeys[m.Key] {
			return nil, fmt.Errorf("%w: key %q", ErrDuplicateCategory, m.Key)
		}
		if labels[m.Label] {
			return nil, fmt.Errorf("%w: label %q", ErrDuplicateCategory, m.Label)
		}
		for _, operand := range []string{m.Left, m.Right} {
			cat, ok := c.Lookup(operand)
			if !ok {
				return nil, fmt.Errorf("%w: %s references unknown category %q", ErrInvalidMerge, m.Key, operand)
			}
			if cat.Kind != core.KindText {
				return nil, fmt.Errorf("%w: %s operand %q is not a text category", ErrInvalidMerge, m.Key, operand)
			}
		}
		mergeKeys[m.Key] = true
		labels[m.Label] = true
		c.merges = append(c.merges, m)
	}

	return c, nil
}

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []core.Category {
	out := make([]core.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Merges returns the merges in declaration order.
func (c *Catalog) Merges() []Merge {
	out := make([]Merge, len(c.merges))
	copy(out, c.merges)
	return out
}

// Lookup finds a category by key.
func (c *Catalog) Lookup(key string) (core.Category, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return core.Category{}, false
	}
	return c.categories[i], true
}

// ByProvider returns the categories of provider p in declaration order.
func (c *Catalog) ByProvider(p core.Provider) []core.Category {
	var out []core.Category
	for _, cat := range c.categories {
		if cat.Provider == p {
			out = append(out, cat)
		}
	}
	return out
}

// Len returns the number of categories plus merges.
func (c *Catalog) Len() int {
	return len(c.categories) + len(c.merges)
}
