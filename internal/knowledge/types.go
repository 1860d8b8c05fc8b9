package knowledge

import "time"

// SourceType records the provenance of a user-authored document.
// Synced feed content is a third implicit category marked by IsDefault.
type SourceType string

const (
	// SourceTypeFile marks documents imported from a local file.
	SourceTypeFile SourceType = "file"

	// SourceTypeManual marks documents entered by hand.
	SourceTypeManual SourceType = "manual"
)

// Document is a unit of knowledge owning an ordered set of chunks.
// Deleting a document deletes its chunks.
type Document struct {
	ID         string
	Title      string
	Content    string
	SourceType SourceType
	SourcePath string // originating file path when SourceType is file
	IsDefault  bool   // true for documents synthesized from the remote feeds

	// ContentHash is a SHA-256 hex digest of Content, used by the sync
	// coordinator to detect remote edits to default documents.
	ContentHash string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Chunks are ordered by ChunkIndex, reflecting original text order.
	Chunks []Chunk
}

// Chunk is a bounded-length slice of a document's text, the atomic unit of
// embedding and retrieval.
type Chunk struct {
	ID         string
	DocumentID string // lookup key back to the owning document
	ChunkIndex int    // zero-based position within the document
	Content    string

	// Embedding is nil when embedding generation failed for this chunk;
	// such chunks are stored but excluded from similarity search.
	Embedding []float32

	CreatedAt time.Time
}

// SearchResult is one ranked hit from a similarity search. It is never
// persisted.
type SearchResult struct {
	ID    string // unique per result instance
	Chunk Chunk

	// DocumentTitle is resolved by the retrieval layer; empty when the
	// owning document cannot be found.
	DocumentTitle string

	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float64
}
