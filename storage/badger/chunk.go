package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend  *Backend
	chunkSeq *badger.Sequence
	embSeq   *badger.Sequence
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (storage.ChunkRepository, error) {
	chunkSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		return nil, err
	}
	embSeq, err := backend.GetSequence(embeddingIDSeq)
	if err != nil {
		chunkSeq.Release()
		return nil, err
	}

	return &ChunkRepository{
		backend:  backend,
		chunkSeq: chunkSeq,
		embSeq:   embSeq,
	}, nil
}

// Close releases the ID sequences.
func (r *ChunkRepository) Close() error {
	err := r.chunkSeq.Release()
	if embErr := r.embSeq.Release(); embErr != nil && err == nil {
		err = embErr
	}
	return err
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks adds one or more chunks to storage.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			id, err := nextID(r.chunkSeq)
			if err != nil {
				return err
			}
			chunk.Id = id
			chunk.CreatedAt = time.Now().UTC()

			if err := tx.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			if err := tx.Set(makeChunkDocKey(chunk.DocumentId, chunk.Id), storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetChunksByDocument retrieves all chunks of a document ordered by chunk
// index.
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		chunkIDs, err := chunkIDsForDocument(tx, documentID)
		if err != nil {
			return err
		}
		for _, chunkID := range chunkIDs {
			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Chunk IDs are drawn in index order within a document, so the index scan
	// already yields chunks sorted by Index.
	return results, nil
}

// Upsert stores the live embedding for each chunk, replacing any previous
// one.
func (r *ChunkRepository) Upsert(ctx context.Context, embeddings ...*core.Embedding) error {
	for _, embedding := range embeddings {
		if err := core.ValidateEmbedding(embedding); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, embedding := range embeddings {
			if embedding.Id == 0 {
				id, err := nextID(r.embSeq)
				if err != nil {
					return err
				}
				embedding.Id = id
			}
			if embedding.CreatedAt.IsZero() {
				embedding.CreatedAt = time.Now().UTC()
			}

			key := makeEmbeddingKey(embedding.ChunkId)
			if err := tx.Set(key, storage.MarshalEmbedding(embedding)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbeddingByChunk retrieves the live embedding of a chunk.
func (r *ChunkRepository) GetEmbeddingByChunk(ctx context.Context, chunkID core.ID) (*core.Embedding, error) {
	var result *core.Embedding
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEmbedding(tx, makeEmbeddingKey(chunkID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FetchCandidates returns a joined (embedding, chunk, document) tuple for
// every chunk with a live embedding owned by the user.
func (r *ChunkRepository) FetchCandidates(ctx context.Context, userID string) ([]*core.Candidate, error) {
	var candidates []*core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialDocumentUserKey(userID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var docID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				docID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			doc, err := readDocument(tx, makeDocumentKey(docID))
			if err != nil {
				return err
			}
			if doc == nil {
				continue
			}

			chunkIDs, err := chunkIDsForDocument(tx, docID)
			if err != nil {
				return err
			}
			for _, chunkID := range chunkIDs {
				embedding, err := readEmbedding(tx, makeEmbeddingKey(chunkID))
				if err != nil {
					return err
				}
				if embedding == nil {
					// Chunk not embedded yet, not a candidate.
					continue
				}

				chunk, err := readChunk(tx, makeChunkKey(chunkID))
				if err != nil {
					return err
				}
				if chunk == nil {
					continue
				}

				candidates = append(candidates, &core.Candidate{
					Document:  doc,
					Chunk:     chunk,
					Embedding: embedding,
				})
			}
		}
		return nil
	}, false)
	return candidates, err
}

// chunkIDsForDocument scans the document index for every chunk ID owned by
// the document, in insertion order.
func chunkIDsForDocument(tx *badger.Txn, documentID core.ID) ([]core.ID, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialChunkDocKey(documentID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// readChunk reads and unmarshals a chunk, returning nil if the key does not
// exist.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	return chunk, err
}

// readEmbedding reads and unmarshals an embedding, returning nil if the key
// does not exist.
func readEmbedding(tx *badger.Txn, key []byte) (*core.Embedding, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var embedding *core.Embedding
	err = item.Value(func(val []byte) error {
		var err error
		embedding, err = storage.UnmarshalEmbedding(val)
		return err
	})
	return embedding, err
}
