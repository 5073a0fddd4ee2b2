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

import (
	"fmt"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - UserId must not be empty
//   - Type must be a known DocumentType
//   - ContentEncrypted must not be empty
//
// NOT validated (populated by storage and processors):
//   - ID (0 is valid before database sequences assign one)
//   - Status (set during ingestion)
//   - Metadata.ContentDates (may legitimately be empty)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.UserId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyUserId)
	}

	if err := ValidateDocumentType(doc.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if len(doc.ContentEncrypted) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - DocumentId must reference a document (non-zero)
//   - Index must not be negative
//   - ContentEncrypted must not be empty
//   - StartChar must be non-negative and strictly less than EndChar
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.DocumentId == 0 {
		return fmt.Errorf("%w: document id is required", ErrInvalidChunk)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: index %d is negative", ErrInvalidChunk, chunk.Index)
	}

	if len(chunk.ContentEncrypted) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.StartChar < 0 || chunk.StartChar >= chunk.EndChar {
		return fmt.Errorf("%w: %w: [%d, %d)", ErrInvalidChunk, ErrInvalidOffsets,
			chunk.StartChar, chunk.EndChar)
	}

	return nil
}

// ValidateEmbedding validates an Embedding according to domain rules.
//
// Validation rules:
//   - ChunkId must reference a chunk (non-zero)
//   - Vector must not be empty
//   - Model must not be empty
func ValidateEmbedding(embedding *Embedding) error {
	if embedding == nil {
		return fmt.Errorf("%w: embedding is nil", ErrInvalidEmbedding)
	}

	if embedding.ChunkId == 0 {
		return fmt.Errorf("%w: chunk id is required", ErrInvalidEmbedding)
	}

	if len(embedding.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyVector)
	}

	if embedding.Model == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyModel)
	}

	return nil
}

// ValidateDocumentType validates that a DocumentType has a known value.
func ValidateDocumentType(t DocumentType) error {
	switch t {
	case DocumentTypeText, DocumentTypeDocument, DocumentTypeWeb,
		DocumentTypeAudio, DocumentTypeImage:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidDocumentType, t)
	}
}
