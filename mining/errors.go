package mining

import "errors"

var (
	// ErrIdentityRequired is returned when a user identity is not provided.
	ErrIdentityRequired = errors.New("user identity required")

	// ErrCatalogRequired is returned when a category catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrRegistryRequired is returned when a parser registry is not provided.
	ErrRegistryRequired = errors.New("parser registry required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCacheRequired is returned when an embedding cache is not provided.
	ErrCacheRequired = errors.New("embedding cache required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is less than or equal to zero.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidPattern is returned for a malformed category filter glob.
	ErrInvalidPattern = errors.New("invalid category pattern")
)
