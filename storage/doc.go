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


// Package storage provides the storage abstraction layer for Memora.
//
// This package defines repository interfaces that decouple storage
// implementation from the retrieval engine. It allows different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Interfaces
//
//   - DocumentRepository: document lifecycle, including cascade delete of
//     chunks and embeddings
//   - ChunkRepository: chunk and embedding persistence for ingestion
//   - VectorIndex: the narrow candidate-scan contract consumed by search;
//     deliberately small so the exhaustive linear scan can later be swapped
//     for an approximate-nearest-neighbor structure without touching the
//     ranker
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return interface types to enforce
// abstraction:
//
//	repo, err := badger.NewDocumentRepository(backend) // storage.DocumentRepository
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. Stored chunks and embeddings are
// append-only per document once written.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
