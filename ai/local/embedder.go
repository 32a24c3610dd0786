// Package local provides an offline, deterministic ai.Embedder.
//
// Text is lowercased and split into word tokens; every token and every
// adjacent token pair is hashed (BLAKE2b, salted with the model identifier)
// into one of a fixed number of signed buckets. The resulting vector is
// normalized to unit length. The same text and model identifier always
// produce byte-identical vectors, which keeps cached embeddings reproducible.
package local

import (
	"context"
	"encoding/binary"
	"log/slog"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/udmine/ai"
	"github.com/poiesic/udmine/core"
)

// Embedder implements ai.Embedder with feature hashing.
type Embedder struct {
	model  string
	dim    int
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a local embedder from the configuration.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return New(config.EmbeddingModel, config.Dimensions), nil
}

// New creates a local embedder directly. dim must be positive.
func New(model string, dim int) *Embedder {
	if dim < 1 {
		dim = 1
	}
	return &Embedder{
		model:  model,
		dim:    dim,
		logger: slog.Default().With("component", "local-embedder", "model", model),
	}
}

// EmbedText hashes text into a unit vector.
// Text without any word tokens is ai.ErrUnembeddable.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, ai.ErrUnembeddable
	}

	vector := make(core.Vector, e.dim)
	for i, tok := range tokens {
		e.accumulate(vector, tok)
		if i > 0 {
			e.accumulate(vector, tokens[i-1]+" "+tok)
		}
	}

	return core.NormalizeVector(vector), nil
}

// Dimensions returns the fixed vector length.
func (e *Embedder) Dimensions() int {
	return e.dim
}

func (e *Embedder) accumulate(vector core.Vector, feature string) {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(e.model))
	h.Write([]byte{0})
	h.Write([]byte(feature))
	sum := binary.LittleEndian.Uint64(h.Sum(nil))

	bucket := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		vector[bucket]--
	} else {
		vector[bucket]++
	}
}

// tokenize lowercases text and splits it on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
