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


// Package ai defines the embedding engine boundary used by udmine.
//
// The miner depends only on the Embedder interface, so the engine can be
// swapped without touching the decision loop or the cache.
//
// # Implementation Packages
//
//   - ai/local: offline feature-hashing embedder (default engine)
//   - ai/openai: OpenAI-compatible servers through langchaingo
//   - ai/mock: test doubles for unit testing
//
// # Constructor Return Type Pattern
//
// Public constructors (local.NewEmbedder, openai.NewEmbedder) return the
// ai.Embedder INTERFACE. Test constructors (mock.NewMockEmbedder) return
// CONCRETE types so tests can inspect call counts and inject behavior.
//
// # Unembeddable Text
//
// An engine that cannot represent a text returns ErrUnembeddable. The miner
// drops such items; they never fail the category they belong to.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithDimensions(384))
//	embedder, err := local.NewEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "Hello world")
package ai
