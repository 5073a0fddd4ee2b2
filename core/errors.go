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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidEmbedding indicates an Embedding failed validation.
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrEmptyUserId indicates the UserId field is empty.
	ErrEmptyUserId = errors.New("user id cannot be empty")

	// ErrInvalidDocumentType indicates an invalid DocumentType value.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrEmptyContent indicates an encrypted content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidOffsets indicates chunk character offsets are inconsistent.
	ErrInvalidOffsets = errors.New("chunk offsets are invalid")

	// ErrEmptyVector indicates an embedding has no vector data.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")

	// ErrEmptyModel indicates an embedding has no model identifier.
	ErrEmptyModel = errors.New("embedding model cannot be empty")

	// ErrTruncatedRecord indicates a serialized record was shorter than
	// its encoding requires.
	ErrTruncatedRecord = errors.New("serialized record truncated")
)
