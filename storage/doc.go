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


// Package storage provides the embedding cache abstraction for udmine.
//
// The EmbeddingCache interface decouples the miner from the cache backend.
// Two backends ship with udmine:
//
//   - storage/file: one entry file per category under
//     <dataRoot>/saved/embeddings/<key>.vec (the default)
//   - storage/badger: a single BadgerDB at <dataRoot>/saved/embeddings.db
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.EmbeddingCache INTERFACE:
//
//	cache, err := file.New(dataRoot)         // returns storage.EmbeddingCache
//	cache, err := badger.NewCache(dataRoot)  // returns storage.EmbeddingCache
//
// Test helpers (badger.NewMemoryCache) follow the same pattern.
//
// # Encoding
//
// Both backends store entries produced by MarshalVectors: a magic and
// version header, the mus-go encoded vector list and a BLAKE2b checksum.
// The encoding is deterministic, so re-saving identical vectors produces
// byte-identical entries. Any damage to an entry is reported as
// core.ErrSerialization by UnmarshalVectors.
//
// # Thread Safety
//
// All cache implementations must be thread-safe. Writes to the same key
// are serialized and readers never observe a partially written entry.
// Keys are independent; there is no cross-key transaction.
package storage
