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


// Package parser defines the contract between udmine and the per-source
// export parsers.
//
// Every parser reports one of three states. Present carries the records
// found, Empty means the source exists and holds nothing, and Unavailable
// means the source cannot be read at all. The miner treats Empty and
// Unavailable very differently (Empty yields no vectors; Unavailable falls
// back to the embedding cache), so parsers must never report one for the
// other. A returned error is handled exactly like Unavailable.
package parser

import (
	"context"

	"github.com/poiesic/udmine/core"
)

// TextParser extracts free-text items from one export source.
type TextParser interface {
	Parse(ctx context.Context, user, dataRoot string) (core.RecordSet, error)
}

// StructuredParser extracts aggregate records from one export source.
type StructuredParser interface {
	Parse(ctx context.Context, user, dataRoot string) (core.AggregateSet, error)
}

// TextParserFunc adapts a function to the TextParser interface.
type TextParserFunc func(ctx context.Context, user, dataRoot string) (core.RecordSet, error)

func (f TextParserFunc) Parse(ctx context.Context, user, dataRoot string) (core.RecordSet, error) {
	return f(ctx, user, dataRoot)
}

// StructuredParserFunc adapts a function to the StructuredParser interface.
type StructuredParserFunc func(ctx context.Context, user, dataRoot string) (core.AggregateSet, error)

func (f StructuredParserFunc) Parse(ctx context.Context, user, dataRoot string) (core.AggregateSet, error) {
	return f(ctx, user, dataRoot)
}
