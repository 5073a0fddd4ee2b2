// Copyright 2025 Sarthak Raghuvanshi
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


// Package ai provides abstractions for the embedding services used by Memora.
//
// The engine never talks to an embedding API directly; it depends on the
// Embedder and AIProvider interfaces defined here. Two implementation
// packages exist:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//     (OpenAI, Ollama, LocalAI, vLLM) via langchaingo
//   - ai/mock: deterministic test doubles with no network access
//
// Public constructors in the implementation packages return interface types
// to prevent coupling to a concrete provider; mock constructors return
// concrete types so tests can inject behavior and assert call counts.
package ai
