// Package mining resolves every category of a user's export into a labeled
// result set.
//
// Each text category follows one decision table:
//
//   - Present items are embedded (order preserved, unembeddable items
//     dropped) and the vectors overwrite the category's cache entry.
//   - Empty yields no vectors and leaves the cache alone.
//   - Unavailable, a parser error or a missing parser loads the cache
//     entry; a missing or corrupt entry degrades the category to no vectors.
//
// Structured categories bypass embedding and produce aggregate totals.
// Merges run last and concatenate two text categories.
//
// Categories resolve concurrently (bounded by WithParallelism) and items
// within a category embed on a shared ants worker pool (WithPoolSize).
// Only a missing data root, or the end of the caller's context, fails a
// run; all other failures stay confined to their category.
//
// # Usage Example
//
//	m, err := mining.NewMiner(id, catalog.Default(), registry, embedder, cache,
//	    mining.WithPoolSize(4),
//	    mining.WithFilter("insta_*"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer m.Release()
//
//	results, err := m.Mine(ctx)
package mining
