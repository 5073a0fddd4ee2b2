// Package ingestion provides pipeline orchestration for bringing documents
// into the encrypted store.
//
// The Pipeline type manages the ingestion workflow for documents, including:
//   - Encrypting and persisting the document synchronously
//   - Chunking, embedding, and encrypting fragments asynchronously
//   - Tracking processing status (pending, ready, failed)
//
// Processing is performed on a worker pool so Ingest returns as soon as the
// document itself is durable. Errors during async processing are logged and
// mark the document failed; they do not reach the caller.
package ingestion
