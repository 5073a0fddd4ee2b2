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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
)

// documentProcessor turns a persisted document's plaintext into encrypted,
// embedded chunks.
type documentProcessor struct {
	documentRepository storage.DocumentRepository
	chunkRepository    storage.ChunkRepository
	embedder           ai.Embedder
	keys               *crypto.KeyManager
	logger             *slog.Logger
}

// newDocumentProcessor creates a new document processor.
func newDocumentProcessor(
	documentRepository storage.DocumentRepository,
	chunkRepository storage.ChunkRepository,
	embedder ai.Embedder,
	keys *crypto.KeyManager,
	logger *slog.Logger,
) (*documentProcessor, error) {
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if keys == nil {
		return nil, ErrKeyManagerRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &documentProcessor{
		documentRepository: documentRepository,
		chunkRepository:    chunkRepository,
		embedder:           embedder,
		keys:               keys,
		logger:             logger.With("processor", "documents"),
	}, nil
}

// process chunks, embeds, encrypts, and persists a document's plaintext, then
// marks the document ready. Zero chunks (empty text) is legal.
func (dp *documentProcessor) process(ctx context.Context, documentID core.ID, plaintext, userID string) error {
	fragments := ChunkText(plaintext)
	dp.logger.Info("processing document", "document", documentID, "chunks", len(fragments))

	if len(fragments) == 0 {
		return dp.documentRepository.SetDocumentStatus(ctx, documentID, core.DocumentStatusReady)
	}

	texts := make([]string, len(fragments))
	for i, fragment := range fragments {
		texts[i] = fragment.Content
	}

	dp.logger.Debug("generating embeddings for chunks", "chunks", len(texts))
	vectors, err := dp.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		dp.logger.Error("error generating embeddings", "err", err)
		return err
	}
	if len(vectors) != len(fragments) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(fragments), len(vectors))
	}

	// Derive once per document, not per fragment.
	key := dp.keys.DeriveKey(userID)

	chunks := make([]*core.Chunk, len(fragments))
	for i, fragment := range fragments {
		encrypted, err := crypto.Encrypt([]byte(fragment.Content), key)
		if err != nil {
			return err
		}
		chunks[i] = &core.Chunk{
			DocumentId:       documentID,
			Index:            fragment.Index,
			ContentEncrypted: encrypted,
			StartChar:        fragment.StartChar,
			EndChar:          fragment.EndChar,
		}
	}

	added, err := dp.chunkRepository.AddChunks(ctx, chunks...)
	if err != nil {
		return err
	}

	embeddings := make([]*core.Embedding, len(added))
	for i, chunk := range added {
		embeddings[i] = &core.Embedding{
			ChunkId: chunk.Id,
			Vector:  vectors[i],
			Model:   dp.embedder.Model(),
		}
	}
	if err := dp.chunkRepository.Upsert(ctx, embeddings...); err != nil {
		return err
	}

	return dp.documentRepository.SetDocumentStatus(ctx, documentID, core.DocumentStatusReady)
}
