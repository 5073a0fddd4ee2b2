package ingestion

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/ai"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/crypto"
	"github.com/sarthakraghuvanshi/Memora-Second-Mind/storage"
)

// Pipeline orchestrates the ingestion and processing of documents.
// Documents are persisted synchronously; chunking, embedding, and fragment
// encryption run on a worker pool.
type Pipeline struct {
	documentRepository storage.DocumentRepository
	chunkRepository    storage.ChunkRepository
	keys               *crypto.KeyManager
	pool               *ants.Pool
	proc               *documentProcessor
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documentRepository storage.DocumentRepository,
	chunkRepository storage.ChunkRepository,
	provider ai.AIProvider,
	keys *crypto.KeyManager,
	opts ...Option,
) (*Pipeline, error) {
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if keys == nil {
		return nil, ErrKeyManagerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documentRepository: documentRepository,
		chunkRepository:    chunkRepository,
		keys:               keys,
		pool:               pool,
		logger:             slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	proc, err := newDocumentProcessor(documentRepository, chunkRepository,
		provider.Embedder(), keys, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.proc = proc

	return p, nil
}

// IngestRequest describes a document to ingest. Content is plaintext; it is
// encrypted before anything touches storage.
type IngestRequest struct {
	UserID    string
	Type      core.DocumentType
	Title     string
	Content   string
	SourceURL string
	MimeType  string
	FileSize  int64
}

// Ingest encrypts and persists the document, then submits chunking and
// embedding to the worker pool and returns. The returned document has status
// pending; it transitions to ready or failed in the background. Errors during
// async processing are logged but never reach the caller.
func (p *Pipeline) Ingest(ctx context.Context, req IngestRequest) (*core.Document, error) {
	if req.UserID == "" {
		return nil, ErrEmptyUserID
	}
	if req.Content == "" {
		return nil, ErrEmptyContent
	}

	key := p.keys.DeriveKey(req.UserID)
	encrypted, err := crypto.Encrypt([]byte(req.Content), key)
	if err != nil {
		return nil, err
	}

	doc := &core.Document{
		UserId:           req.UserID,
		Type:             req.Type,
		Title:            req.Title,
		ContentEncrypted: encrypted,
		SourceURL:        req.SourceURL,
		MimeType:         req.MimeType,
		FileSize:         req.FileSize,
		Status:           core.DocumentStatusPending,
		Metadata: core.Metadata{
			ContentDates:        ExtractContentDates(req.Content),
			ExtractedTextLength: len([]rune(req.Content)),
		},
	}

	added, err := p.documentRepository.AddDocuments(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc = added[0]

	documentID := doc.Id
	plaintext := req.Content
	userID := req.UserID
	p.pool.Submit(func() {
		if err := p.proc.process(context.Background(), documentID, plaintext, userID); err != nil {
			p.logger.Error("error processing document", "document", documentID, "err", err)
			if statusErr := p.documentRepository.SetDocumentStatus(
				context.Background(), documentID, core.DocumentStatusFailed); statusErr != nil {
				p.logger.Error("error marking document failed", "document", documentID, "err", statusErr)
			}
		}
	})

	return doc, nil
}

// Process runs the chunk-embed-encrypt-persist unit synchronously for an
// already persisted document. Ingest uses it through the pool; callers that
// need deterministic completion can invoke it directly.
func (p *Pipeline) Process(ctx context.Context, documentID core.ID, plaintext, userID string) error {
	return p.proc.process(ctx, documentID, plaintext, userID)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
