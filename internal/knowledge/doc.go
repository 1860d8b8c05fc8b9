// Package knowledge defines the lumen knowledge engine's data model and its
// persistence layer.
//
// A Document owns an ordered list of Chunks; each chunk may carry a vector
// embedding. The Store interface exposes the operations the engine needs:
//
//	FetchAllDocuments(ctx)        - all documents, updatedAt descending
//	FetchDocument(ctx, id)        - one document with its chunks
//	SaveDocument(ctx, doc)        - upsert; replaces the chunk set atomically
//	DeleteDocument(ctx, id)       - cascade-deletes the document's chunks
//	FetchAllChunks(ctx)           - all chunks, (documentID, chunkIndex) asc
//	FetchChunks(ctx, documentID)  - one document's chunks, chunkIndex asc
//	UpdateChunk(ctx, chunk)       - in-place content/embedding update
//
// PostgresStore implements Store on PostgreSQL with the pgvector extension.
// SaveDocument runs inside a single transaction: the document row is
// upserted, prior chunks are deleted, and the new chunk set is inserted, so
// a concurrent reader never observes a mixed chunk set.
//
// The store is sized for a single device's knowledge base (a few thousand
// chunks); similarity ranking happens in memory in the retrieval layer, not
// in SQL.
package knowledge
