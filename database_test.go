package memora

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai/mock"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCryptoConfig() *crypto.Config {
	return &crypto.Config{MasterSecret: "test-master-secret"}
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir, WithCryptoConfig(testCryptoConfig()))
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.DocumentRepository())
		assert.NotNil(t, db.ChunkRepository())
		assert.NotNil(t, db.KeyManager())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("missing master secret", func(t *testing.T) {
		db, err := NewDatabase(t.TempDir())
		assert.ErrorIs(t, err, crypto.ErrMasterSecretRequired)
		assert.Nil(t, db)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile, WithCryptoConfig(testCryptoConfig()))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir, WithCryptoConfig(testCryptoConfig()))
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_FactoryMethods(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir, WithCryptoConfig(testCryptoConfig()))
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := db.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
		searcher.Release()
	})
}

func TestDatabase_IngestThenSearch(t *testing.T) {
	db, err := NewDatabase(t.TempDir(),
		WithCryptoConfig(testCryptoConfig()),
		WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	doc, err := pipeline.Ingest(ctx, ingestion.IngestRequest{
		UserID:  "alice",
		Type:    core.DocumentTypeText,
		Title:   "Grocery list",
		Content: "buy oat milk and coffee beans",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := db.DocumentRepository().GetDocument(ctx, doc.Id)
		return err == nil && got.Status == core.DocumentStatusReady
	}, 5*time.Second, 10*time.Millisecond)

	searcher, err := db.NewSearcher()
	require.NoError(t, err)
	defer searcher.Release()

	// The mock embedder is deterministic, so the exact ingested text scores 1.0
	results, err := searcher.Search(ctx, "buy oat milk and coffee beans", "alice", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Grocery list", results[0].DocumentTitle)
	assert.Equal(t, "buy oat milk and coffee beans", results[0].Content)
	assert.Greater(t, results[0].Score, 0.9)
}
