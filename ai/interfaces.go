package ai

import (
	"context"
	"errors"
)

// ErrUnembeddable is returned by an Embedder for text it cannot represent.
// Callers drop such items rather than failing the batch.
var ErrUnembeddable = errors.New("text is unembeddable")

// Embedder generates fixed-length vector embeddings from text.
// Implementations must be thread-safe for concurrent use and effectively
// pure: the same text must always produce the same vector, otherwise
// cached embeddings stop being reproducible.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns ErrUnembeddable (or an empty vector) when the text has no
	// representation, and any other error when generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the length of every vector this embedder produces,
	// or 0 if it is only known after the first call.
	Dimensions() int
}
