package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrKeyManagerRequired is returned when a key manager is not provided.
	ErrKeyManagerRequired = errors.New("key manager required")

	// ErrEmptyUserID is returned when an ingest request has no user id.
	ErrEmptyUserID = errors.New("user id required")

	// ErrEmptyContent is returned when an ingest request has no content.
	ErrEmptyContent = errors.New("content required")
)
