package ingestion

import (
	"context"
	"errors"
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

func setupTestRepositories(t *testing.T) (storage.DocumentRepository, storage.ChunkRepository) {
	docRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	t.Cleanup(func() {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
	})

	return docRepo, chunkRepo
}

func testKeyManager(t *testing.T) *crypto.KeyManager {
	keys, err := crypto.NewKeyManager(&crypto.Config{MasterSecret: "test-master-secret"})
	require.NoError(t, err)
	return keys
}

func TestNewPipeline_Validation(t *testing.T) {
	docRepo, chunkRepo := setupTestRepositories(t)
	provider := mock.NewMockProvider()
	keys := testKeyManager(t)

	tests := []struct {
		name string
		run  func() (*Pipeline, error)
		want error
	}{
		{
			name: "nil document repository",
			run: func() (*Pipeline, error) {
				return NewPipeline(nil, chunkRepo, provider, keys)
			},
			want: ErrDocumentRepositoryRequired,
		},
		{
			name: "nil chunk repository",
			run: func() (*Pipeline, error) {
				return NewPipeline(docRepo, nil, provider, keys)
			},
			want: ErrChunkRepositoryRequired,
		},
		{
			name: "nil provider",
			run: func() (*Pipeline, error) {
				return NewPipeline(docRepo, chunkRepo, nil, keys)
			},
			want: ErrAIProviderRequired,
		},
		{
			name: "nil key manager",
			run: func() (*Pipeline, error) {
				return NewPipeline(docRepo, chunkRepo, provider, nil)
			},
			want: ErrKeyManagerRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.run()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIngest_Validation(t *testing.T) {
	docRepo, chunkRepo := setupTestRepositories(t)
	pipeline, err := NewPipeline(docRepo, chunkRepo, mock.NewMockProvider(), testKeyManager(t))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	t.Run("empty user id", func(t *testing.T) {
		_, err := pipeline.Ingest(ctx, IngestRequest{Type: core.DocumentTypeText, Content: "hello"})
		assert.ErrorIs(t, err, ErrEmptyUserID)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := pipeline.Ingest(ctx, IngestRequest{UserID: "alice", Type: core.DocumentTypeText})
		assert.ErrorIs(t, err, ErrEmptyContent)
	})
}

func TestIngest_PersistsEncryptedDocument(t *testing.T) {
	docRepo, chunkRepo := setupTestRepositories(t)
	keys := testKeyManager(t)
	pipeline, err := NewPipeline(docRepo, chunkRepo, mock.NewMockProvider(), keys)
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	content := "Standup notes from the meeting on 13/04/2024. We discussed roadmaps."

	doc, err := pipeline.Ingest(ctx, IngestRequest{
		UserID:  "alice",
		Type:    core.DocumentTypeText,
		Title:   "Standup notes",
		Content: content,
	})
	require.NoError(t, err)
	require.NotZero(t, doc.Id)

	assert.Equal(t, core.DocumentStatusPending, doc.Status)
	assert.Equal(t, len([]rune(content)), doc.Metadata.ExtractedTextLength)
	require.Len(t, doc.Metadata.ContentDates, 1)
	assert.Equal(t, time.Date(2024, time.April, 13, 0, 0, 0, 0, time.UTC), doc.Metadata.ContentDates[0])

	// Stored blob is ciphertext, not the plaintext
	assert.NotContains(t, string(doc.ContentEncrypted), "Standup")

	key := keys.DeriveKey("alice")
	plaintext, err := crypto.Decrypt(doc.ContentEncrypted, key)
	require.NoError(t, err)
	assert.Equal(t, content, string(plaintext))
}

func TestProcess_ChunksEmbedsAndMarksReady(t *testing.T) {
	docRepo, chunkRepo := setupTestRepositories(t)
	keys := testKeyManager(t)
	pipeline, err := NewPipeline(docRepo, chunkRepo, mock.NewMockProvider(), keys)
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	key := keys.DeriveKey("alice")
	plaintext := ""
	for len(plaintext) < 2500 {
		plaintext += "all work and no play makes jack a dull boy "
	}
	plaintext = plaintext[:2500]

	encrypted, err := crypto.Encrypt([]byte(plaintext), key)
	require.NoError(t, err)
	docs, err := docRepo.AddDocuments(ctx, &core.Document{
		UserId:           "alice",
		Type:             core.DocumentTypeText,
		Title:            "Long note",
		ContentEncrypted: encrypted,
		Status:           core.DocumentStatusPending,
	})
	require.NoError(t, err)
	doc := docs[0]

	err = pipeline.Process(ctx, doc.Id, plaintext, "alice")
	require.NoError(t, err)

	got, err := docRepo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStatusReady, got.Status)

	chunks, err := chunkRepo.GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for _, chunk := range chunks {
		decrypted, err := crypto.Decrypt(chunk.ContentEncrypted, key)
		require.NoError(t, err)
		runes := []rune(plaintext)
		assert.Equal(t, string(runes[chunk.StartChar:chunk.EndChar]), string(decrypted))

		embedding, err := chunkRepo.GetEmbeddingByChunk(ctx, chunk.Id)
		require.NoError(t, err)
		assert.Equal(t, "mock-embedder", embedding.Model)
		assert.NotEmpty(t, embedding.Vector)
	}
}

func TestProcess_EmptyTextMarksReady(t *testing.T) {
	docRepo, chunkRepo := setupTestRepositories(t)
	keys := testKeyManager(t)
	pipeline, err := NewPipeline(docRepo, chunkRepo, mock.NewMockProvider(), keys)
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	encrypted, err := crypto.Encrypt([]byte(" "), keys.DeriveKey("alice"))
	require.NoError(t, err)
	docs, err := docRepo.AddDocuments(ctx, &core.Document{
		UserId:           "alice",
		Type:             core.DocumentTypeText,
		ContentEncrypted: encrypted,
		Status:           core.DocumentStatusPending,
	})
	require.NoError(t, err)

	err = pipeline.Process(ctx, docs[0].Id, "", "alice")
	require.NoError(t, err)

	got, err := docRepo.GetDocument(ctx, docs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStatusReady, got.Status)

	chunks, err := chunkRepo.GetChunksByDocument(ctx, docs[0].Id)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngest_BackgroundFailureMarksFailed(t *testing.T) {
	docRepo, chunkRepo := setupTestRepositories(t)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	pipeline, err := NewPipeline(docRepo, chunkRepo,
		mock.NewMockProviderWithEmbedder(embedder), testKeyManager(t), WithPoolSize(1))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	doc, err := pipeline.Ingest(ctx, IngestRequest{
		UserID:  "alice",
		Type:    core.DocumentTypeText,
		Content: "some text that will fail to embed",
	})
	require.NoError(t, err, "ingest must not surface background failures")

	// Wait for the background task to mark the document failed
	require.Eventually(t, func() bool {
		got, err := docRepo.GetDocument(ctx, doc.Id)
		if err != nil {
			return false
		}
		return got.Status == core.DocumentStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	chunks, err := chunkRepo.GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngest_BackgroundSuccessMarksReady(t *testing.T) {
	docRepo, chunkRepo := setupTestRepositories(t)
	pipeline, err := NewPipeline(docRepo, chunkRepo, mock.NewMockProvider(),
		testKeyManager(t), WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	doc, err := pipeline.Ingest(ctx, IngestRequest{
		UserID:  "alice",
		Type:    core.DocumentTypeText,
		Title:   "Quick note",
		Content: "remember to water the plants",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := docRepo.GetDocument(ctx, doc.Id)
		if err != nil {
			return false
		}
		return got.Status == core.DocumentStatusReady
	}, 5*time.Second, 10*time.Millisecond)

	chunks, err := chunkRepo.GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	_, err = chunkRepo.GetEmbeddingByChunk(ctx, chunks[0].Id)
	require.NoError(t, err)
}
