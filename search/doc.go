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


// Package search provides hybrid semantic and temporal retrieval over the
// encrypted store.
//
// The Searcher type implements a multi-stage query pipeline that combines:
//   - Temporal filtering from natural-language date expressions
//   - Semantic ranking using cosine similarity over vector embeddings
//   - A recency boost favoring recently created documents
//
// Candidate chunks are decrypted and scored concurrently; a candidate that
// fails decryption or scoring is dropped from that query rather than failing
// it. Results feed BuildContext, which renders them into a prompt-ready
// context block.
package search
