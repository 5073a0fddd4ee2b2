package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
)

// BatchProcessor re-embeds batches of candidate chunks. Each chunk is
// decrypted with the user's key, the batch is embedded with the target
// model, and the new vectors replace the old ones through the index.
type BatchProcessor struct {
	index          storage.VectorIndex
	embedder       ai.Embedder
	key            []byte
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// key: the user's derived encryption key
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(index storage.VectorIndex, embedder ai.Embedder, key []byte, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		index:          index,
		embedder:       embedder,
		key:            key,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of candidates and upserts the new vectors.
// Vectors are normalized after embedding to ensure compatibility with cosine
// similarity.
func (bp *BatchProcessor) Process(ctx context.Context, candidates []*core.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	texts := make([]string, len(candidates))
	for i, candidate := range candidates {
		plaintext, err := crypto.Decrypt(candidate.Chunk.ContentEncrypted, bp.key)
		if err != nil {
			return fmt.Errorf("failed to decrypt chunk %d: %w", candidate.Chunk.Id, err)
		}
		texts[i] = string(plaintext)
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(candidates) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(candidates), len(vectors))
	}

	embeddings := make([]*core.Embedding, len(candidates))
	for i, candidate := range candidates {
		embeddings[i] = &core.Embedding{
			ChunkId: candidate.Chunk.Id,
			Vector:  NormalizeVector(vectors[i]),
			Model:   bp.embedder.Model(),
		}
	}

	if err := bp.index.Upsert(ctx, embeddings...); err != nil {
		return fmt.Errorf("failed to store embeddings: %w", err)
	}

	return nil
}
