package core

import (
	"time"
)

// ID is a unique identifier for domain entities.
// IDs are allocated from database sequences.
type ID uint64

// DocumentType identifies the kind of source a document was ingested from.
type DocumentType int

const (
	// DocumentTypeText is free-form text pasted or typed by the user.
	DocumentTypeText DocumentType = iota + 1
	// DocumentTypeDocument is an uploaded file (PDF, office document, ...).
	DocumentTypeDocument
	// DocumentTypeWeb is content scraped from a web page.
	DocumentTypeWeb
	// DocumentTypeAudio is a transcription of an audio recording.
	DocumentTypeAudio
	// DocumentTypeImage is text extracted from an image.
	DocumentTypeImage
)

// DocumentStatus tracks the background processing state of a document.
// A document is durably stored as soon as it is created, but is invisible
// to search until its chunks and embeddings exist.
type DocumentStatus int

const (
	// DocumentStatusPending means chunking and embedding have not completed yet.
	DocumentStatusPending DocumentStatus = iota + 1
	// DocumentStatusReady means the document is fully searchable.
	DocumentStatusReady
	// DocumentStatusFailed means background processing failed; the document
	// exists but has no searchable fragments.
	DocumentStatusFailed
)

// String returns a human-readable status name.
func (s DocumentStatus) String() string {
	switch s {
	case DocumentStatusPending:
		return "pending"
	case DocumentStatusReady:
		return "ready"
	case DocumentStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Metadata holds typed, validated metadata about a document's content.
// ContentDates are dates mentioned inside the content itself, independent
// of when the document was captured.
type Metadata struct {
	ContentDates        []time.Time
	ExtractedTextLength int
}

// Document is the unit of ingestion. Its content is stored encrypted with
// the owning user's derived key and is never persisted in plaintext.
// A Document exclusively owns its Chunks.
type Document struct {
	Id               ID
	UserId           string
	Type             DocumentType
	Title            string
	ContentEncrypted []byte
	Metadata         Metadata
	SourceURL        string
	FileSize         int64
	MimeType         string
	Status           DocumentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Chunk is a bounded, possibly overlapping fragment of a document's
// plaintext, the unit of embedding and retrieval. StartChar and EndChar are
// rune offsets into the original plaintext; offsets of consecutive chunks
// may overlap (sliding window), while Index is strictly increasing and
// gapless within a document.
type Chunk struct {
	Id               ID
	DocumentId       ID
	Index            int
	ContentEncrypted []byte
	StartChar        int
	EndChar          int
	CreatedAt        time.Time
}

// Embedding is the vector representation of one chunk. Exactly one live
// embedding exists per chunk; Model records the identifier of the model that
// produced the vector for future compatibility checks.
type Embedding struct {
	Id        ID
	ChunkId   ID
	Vector    []float32
	Model     string
	CreatedAt time.Time
}

// Candidate is a joined (embedding, chunk, document) tuple produced by the
// candidate scan for one user.
type Candidate struct {
	Document  *Document
	Chunk     *Chunk
	Embedding *Embedding
}

// RankedResult is one decrypted, scored search hit.
type RankedResult struct {
	DocumentId    ID
	DocumentTitle string
	ChunkId       ID
	Content       string
	Score         float64
	CreatedAt     time.Time
}
