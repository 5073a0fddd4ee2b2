package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai/mock"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reembedEnv struct {
	docRepo   storage.DocumentRepository
	chunkRepo storage.ChunkRepository
	keys      *crypto.KeyManager
}

func newReembedEnv(t *testing.T) *reembedEnv {
	docRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	keys, err := crypto.NewKeyManager(&crypto.Config{MasterSecret: "reembed-test-secret"})
	require.NoError(t, err)

	return &reembedEnv{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		keys:      keys,
	}
}

// seedChunks stores count encrypted chunks for userID, each with an embedding
// produced by an old model.
func (env *reembedEnv) seedChunks(t *testing.T, userID string, count int) []core.ID {
	ctx := context.Background()
	key := env.keys.DeriveKey(userID)

	chunkIDs := make([]core.ID, 0, count)
	for i := 0; i < count; i++ {
		content := fmt.Sprintf("note number %d", i)
		encrypted, err := crypto.Encrypt([]byte(content), key)
		require.NoError(t, err)

		docs, err := env.docRepo.AddDocuments(ctx, &core.Document{
			UserId:           userID,
			Type:             core.DocumentTypeText,
			Title:            fmt.Sprintf("Note %d", i),
			ContentEncrypted: encrypted,
			Status:           core.DocumentStatusReady,
		})
		require.NoError(t, err)

		encryptedChunk, err := crypto.Encrypt([]byte(content), key)
		require.NoError(t, err)
		chunks, err := env.chunkRepo.AddChunks(ctx, &core.Chunk{
			DocumentId:       docs[0].Id,
			Index:            0,
			ContentEncrypted: encryptedChunk,
			StartChar:        0,
			EndChar:          len([]rune(content)),
		})
		require.NoError(t, err)

		err = env.chunkRepo.Upsert(ctx, &core.Embedding{
			ChunkId: chunks[0].Id,
			Vector:  []float32{1.0, 2.0, 3.0},
			Model:   "old-model",
		})
		require.NoError(t, err)

		chunkIDs = append(chunkIDs, chunks[0].Id)
	}

	return chunkIDs
}

func TestNewReembedder_RequiresUser(t *testing.T) {
	env := newReembedEnv(t)

	_, err := NewReembedder(env.chunkRepo, mock.NewMockEmbedder(), env.keys, "", nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestReembedder_Run(t *testing.T) {
	env := newReembedEnv(t)
	ctx := context.Background()

	chunkIDs := env.seedChunks(t, "alice", 10)

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reembedder, err := NewReembedder(env.chunkRepo, mock.NewMockEmbedder(), env.keys, "alice", config, &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(ctx))

	for _, id := range chunkIDs {
		embedding, err := env.chunkRepo.GetEmbeddingByChunk(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "mock-embedder", embedding.Model, "chunk %d should carry the new model", id)

		var magnitude float32
		for _, v := range embedding.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.01, "vector should be normalized")
	}

	output := buf.String()
	assert.Contains(t, output, "10/10", "should show completion")
}

func TestReembedder_LeavesOtherUsersAlone(t *testing.T) {
	env := newReembedEnv(t)
	ctx := context.Background()

	aliceChunks := env.seedChunks(t, "alice", 2)
	bobChunks := env.seedChunks(t, "bob", 2)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(env.chunkRepo, mock.NewMockEmbedder(), env.keys, "alice", nil, &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(ctx))

	for _, id := range aliceChunks {
		embedding, err := env.chunkRepo.GetEmbeddingByChunk(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "mock-embedder", embedding.Model)
	}
	for _, id := range bobChunks {
		embedding, err := env.chunkRepo.GetEmbeddingByChunk(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "old-model", embedding.Model, "other users' embeddings must be untouched")
	}
}

func TestReembedder_NoChunks(t *testing.T) {
	env := newReembedEnv(t)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(env.chunkRepo, mock.NewMockEmbedder(), env.keys, "alice", nil, &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(context.Background()))

	assert.Contains(t, buf.String(), "No embedded chunks", "should report nothing to do")
}

func TestReembedder_ContextCancellation(t *testing.T) {
	env := newReembedEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	env.seedChunks(t, "alice", 10)

	callCount := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		callCount++
		if callCount == 2 {
			cancel()
		}
		result := make([][]float32, len(texts))
		for i := range result {
			result[i] = []float32{1.0, 0.0, 0.0}
		}
		return result, nil
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}

	reembedder, err := NewReembedder(env.chunkRepo, embedder, env.keys, "alice", config, &buf)
	require.NoError(t, err)

	err = reembedder.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	env := newReembedEnv(t)

	env.seedChunks(t, "alice", 1)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("persistent error")
	}

	var buf bytes.Buffer
	config := &Config{
		BatchSize:      1,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     10 * time.Millisecond,
	}

	reembedder, err := NewReembedder(env.chunkRepo, embedder, env.keys, "alice", config, &buf)
	require.NoError(t, err)

	err = reembedder.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
}

func TestReembedder_WrongKeyFailsClosed(t *testing.T) {
	env := newReembedEnv(t)
	ctx := context.Background()

	env.seedChunks(t, "alice", 1)

	// A key manager with a different master secret derives the wrong key,
	// so decryption must fail rather than re-embed garbage.
	otherKeys, err := crypto.NewKeyManager(&crypto.Config{MasterSecret: "some-other-secret"})
	require.NoError(t, err)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(env.chunkRepo, mock.NewMockEmbedder(), otherKeys, "alice", nil, &buf)
	require.NoError(t, err)

	err = reembedder.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt")
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Greater(t, config.BatchSize, 0)
	assert.Greater(t, config.ReportInterval, 0)
	assert.Greater(t, config.MaxRetries, 0)
	assert.Greater(t, config.RetryDelay, time.Duration(0))
}
