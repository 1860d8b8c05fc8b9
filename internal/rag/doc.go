// Package rag wires the knowledge engine's pieces into its two pipelines.
//
// Indexer is the ingest path: a document's content is split into bounded
// chunks, each chunk is embedded (an embedding failure stores the chunk
// without a vector rather than failing the document), and the assembled
// document is saved in one atomic upsert.
//
// Retriever is the query path: the query is embedded, ranked against an
// in-memory snapshot of all chunks, and the top results are enriched with
// their document titles. Retrieval degrades to an empty result set on any
// failure so the primary chat flow is never blocked; callers cannot
// distinguish "nothing relevant" from "embedding backend down", which is
// intentional.
package rag
