package storage

import (
	"context"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
)

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// VectorIndex is the candidate-scan contract consumed by search. It is kept
// deliberately narrow: today it is backed by an exhaustive scan over every
// chunk and embedding a user owns, which is appropriate at
// personal-knowledge-base scale and is the documented scalability ceiling.
// An approximate-nearest-neighbor structure can replace it behind the same
// two methods.
type VectorIndex interface {
	// FetchCandidates returns a joined (embedding, chunk, document) tuple
	// for every chunk with a live embedding owned by the user. Chunks
	// without embeddings are skipped.
	FetchCandidates(ctx context.Context, userID string) ([]*core.Candidate, error)

	// Upsert stores the live embedding for a chunk, replacing any previous
	// one. At most one live embedding exists per chunk.
	Upsert(ctx context.Context, embeddings ...*core.Embedding) error
}

// DocumentRepository provides operations for managing documents.
type DocumentRepository interface {
	Repository

	// AddDocuments adds one or more documents to storage. Generates IDs from
	// the sequence and sets CreatedAt/UpdatedAt. Returns the documents with
	// IDs and timestamps populated.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments updates existing documents, refreshing UpdatedAt.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by ID, cascading to their chunks and
	// embeddings. Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing ones).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// GetDocumentsByUser retrieves all documents owned by a user.
	GetDocumentsByUser(ctx context.Context, userID string) ([]*core.Document, error)

	// SetDocumentStatus transitions a document's processing status.
	// Returns ErrNotFound if the document doesn't exist.
	SetDocumentStatus(ctx context.Context, id core.ID, status core.DocumentStatus) error
}

// ChunkRepository provides operations for managing chunks and their
// embeddings. It embeds VectorIndex so search consumers can depend on the
// narrow scan contract alone.
type ChunkRepository interface {
	Repository
	VectorIndex

	// AddChunks adds one or more chunks to storage. Generates IDs from the
	// sequence and sets CreatedAt. Returns the chunks with IDs populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunksByDocument retrieves all chunks of a document ordered by
	// chunk index.
	GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// GetEmbeddingByChunk retrieves the live embedding of a chunk.
	// Returns ErrNotFound if the chunk has no embedding.
	GetEmbeddingByChunk(ctx context.Context, chunkID core.ID) (*core.Embedding, error)
}
