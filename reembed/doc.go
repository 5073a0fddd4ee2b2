// Package reembed provides functionality for re-embedding a user's stored
// chunks with a new or updated embedding model.
//
// Chunks are decrypted with the user's derived key, embedded in batches, and
// the new vectors replace the old ones in place, so a model migration never
// leaves a chunk with two live embeddings. The package supports progress
// tracking, retry logic with exponential backoff, and vector normalization.
package reembed
