package badger

import (
	"context"
	"testing"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChunks(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	docs, err := docRepo.AddDocuments(ctx, newTestDocument("alice"))
	require.NoError(t, err)

	t.Run("assigns ids", func(t *testing.T) {
		chunks, err := chunkRepo.AddChunks(ctx,
			&core.Chunk{DocumentId: docs[0].Id, Index: 0, ContentEncrypted: []byte("c0"), StartChar: 0, EndChar: 10},
			&core.Chunk{DocumentId: docs[0].Id, Index: 1, ContentEncrypted: []byte("c1"), StartChar: 8, EndChar: 20},
		)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.NotZero(t, chunks[0].Id)
		assert.NotEqual(t, chunks[0].Id, chunks[1].Id)
		assert.False(t, chunks[0].CreatedAt.IsZero())
	})

	t.Run("rejects invalid chunk", func(t *testing.T) {
		_, err := chunkRepo.AddChunks(ctx, &core.Chunk{DocumentId: 0})
		assert.ErrorIs(t, err, core.ErrInvalidChunk)
	})
}

func TestGetChunksByDocument_Ordered(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	docs, err := docRepo.AddDocuments(ctx, newTestDocument("alice"), newTestDocument("alice"))
	require.NoError(t, err)

	_, err = chunkRepo.AddChunks(ctx,
		&core.Chunk{DocumentId: docs[0].Id, Index: 0, ContentEncrypted: []byte("a0"), StartChar: 0, EndChar: 10},
		&core.Chunk{DocumentId: docs[0].Id, Index: 1, ContentEncrypted: []byte("a1"), StartChar: 8, EndChar: 20},
		&core.Chunk{DocumentId: docs[1].Id, Index: 0, ContentEncrypted: []byte("b0"), StartChar: 0, EndChar: 5},
	)
	require.NoError(t, err)

	chunks, err := chunkRepo.GetChunksByDocument(ctx, docs[0].Id)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
	for _, chunk := range chunks {
		assert.Equal(t, docs[0].Id, chunk.DocumentId)
	}

	empty, err := chunkRepo.GetChunksByDocument(ctx, 999999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpsert_ReplacesLiveEmbedding(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	docs, err := docRepo.AddDocuments(ctx, newTestDocument("alice"))
	require.NoError(t, err)
	chunks, err := chunkRepo.AddChunks(ctx,
		&core.Chunk{DocumentId: docs[0].Id, Index: 0, ContentEncrypted: []byte("c0"), StartChar: 0, EndChar: 10})
	require.NoError(t, err)

	err = chunkRepo.Upsert(ctx, &core.Embedding{
		ChunkId: chunks[0].Id,
		Vector:  []float32{1.0, 0.0},
		Model:   "model-v1",
	})
	require.NoError(t, err)

	err = chunkRepo.Upsert(ctx, &core.Embedding{
		ChunkId: chunks[0].Id,
		Vector:  []float32{0.0, 1.0},
		Model:   "model-v2",
	})
	require.NoError(t, err)

	got, err := chunkRepo.GetEmbeddingByChunk(ctx, chunks[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "model-v2", got.Model)
	assert.Equal(t, []float32{0.0, 1.0}, got.Vector)

	t.Run("rejects invalid embedding", func(t *testing.T) {
		err := chunkRepo.Upsert(ctx, &core.Embedding{ChunkId: chunks[0].Id})
		assert.ErrorIs(t, err, core.ErrInvalidEmbedding)
	})
}

func TestGetEmbeddingByChunk_Missing(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	}()

	_, err = chunkRepo.GetEmbeddingByChunk(context.Background(), 999999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFetchCandidates(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	aliceDocs, err := docRepo.AddDocuments(ctx, newTestDocument("alice"))
	require.NoError(t, err)
	bobDocs, err := docRepo.AddDocuments(ctx, newTestDocument("bob"))
	require.NoError(t, err)

	aliceChunks, err := chunkRepo.AddChunks(ctx,
		&core.Chunk{DocumentId: aliceDocs[0].Id, Index: 0, ContentEncrypted: []byte("a0"), StartChar: 0, EndChar: 10},
		&core.Chunk{DocumentId: aliceDocs[0].Id, Index: 1, ContentEncrypted: []byte("a1"), StartChar: 8, EndChar: 20},
	)
	require.NoError(t, err)
	bobChunks, err := chunkRepo.AddChunks(ctx,
		&core.Chunk{DocumentId: bobDocs[0].Id, Index: 0, ContentEncrypted: []byte("b0"), StartChar: 0, EndChar: 5})
	require.NoError(t, err)

	// Embed one of alice's chunks and bob's chunk. Alice's second chunk stays
	// unembedded and must not surface.
	err = chunkRepo.Upsert(ctx,
		&core.Embedding{ChunkId: aliceChunks[0].Id, Vector: []float32{1, 0}, Model: "m"},
		&core.Embedding{ChunkId: bobChunks[0].Id, Vector: []float32{0, 1}, Model: "m"},
	)
	require.NoError(t, err)

	candidates, err := chunkRepo.FetchCandidates(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, aliceDocs[0].Id, candidates[0].Document.Id)
	assert.Equal(t, aliceChunks[0].Id, candidates[0].Chunk.Id)
	assert.Equal(t, aliceChunks[0].Id, candidates[0].Embedding.ChunkId)

	none, err := chunkRepo.FetchCandidates(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
