package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/sarthakraghuvanshi/Memora-Second-Mind/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentUserPrefix = "docusr"
	documentIDSeq      = "docrecseq"
	chunkPrefix        = "chkrec"
	chunkDocPrefix     = "chkdoc"
	chunkIDSeq         = "chkrecseq"
	embeddingPrefix    = "embchk"
	embeddingIDSeq     = "embrecseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeDocumentUserKey generates a composite key for the user index.
// Format: prefix:userID:id
func makeDocumentUserKey(userID string, id core.ID) []byte {
	buf := makePartialDocumentUserKey(userID)
	idBytes := make([]byte, 8)
	// BigEndian so lexicographic iteration follows insertion order
	binary.BigEndian.PutUint64(idBytes, uint64(id))
	return append(buf, idBytes...)
}

// makePartialDocumentUserKey generates the per-user index prefix.
func makePartialDocumentUserKey(userID string) []byte {
	return []byte(documentUserPrefix + ":" + userID + ":")
}

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkDocKey generates a composite key for the document index.
// Format: prefix:documentID:chunkID
func makeChunkDocKey(documentID, chunkID core.ID) []byte {
	buf := makePartialChunkDocKey(documentID)
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, uint64(chunkID))
	return append(buf, idBytes...)
}

// makePartialChunkDocKey generates a partial key for per-document chunk
// iteration.
func makePartialChunkDocKey(documentID core.ID) []byte {
	prefix := []byte(chunkDocPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}

// makeEmbeddingKey generates the key of a chunk's live embedding. Keying by
// chunk ID is what enforces the one-live-embedding-per-chunk invariant:
// upserts overwrite in place.
func makeEmbeddingKey(chunkID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, chunkID))
}
