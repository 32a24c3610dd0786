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


package core

import "errors"

// Mining errors. Only ErrDataRootMissing is fatal to a run; every other
// kind is isolated to the category (or merge) that raised it.
var (
	// ErrParserUnavailable indicates a parser could not read its source.
	// It triggers the cache fallback.
	ErrParserUnavailable = errors.New("parser unavailable")

	// ErrCacheMiss indicates no cached embeddings exist for a category.
	ErrCacheMiss = errors.New("cache miss")

	// ErrSerialization indicates a cache entry is corrupt or unreadable.
	ErrSerialization = errors.New("serialization error")

	// ErrEmbeddingFailure indicates a single item could not be embedded.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrDimensionMismatch indicates two vector sets cannot be merged.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDataRootMissing indicates the export data root does not exist.
	ErrDataRootMissing = errors.New("data root missing")
)

// Domain validation errors
var (
	// ErrInvalidCategory indicates a Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyKey indicates the category Key field is empty or malformed.
	ErrEmptyKey = errors.New("category key must match [a-z0-9_-]+")

	// ErrEmptyLabel indicates the category Label field is empty.
	ErrEmptyLabel = errors.New("category label cannot be empty")

	// ErrInvalidKind indicates an invalid Kind value.
	ErrInvalidKind = errors.New("invalid category kind")

	// ErrMissingMeasure indicates a structured category names no measure.
	ErrMissingMeasure = errors.New("structured category requires a measure")

	// ErrInvalidEntry indicates a result entry could not be recorded.
	ErrInvalidEntry = errors.New("invalid result entry")
)
