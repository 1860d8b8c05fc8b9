package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the persistence contract for documents and chunks. Implementations
// must make SaveDocument's chunk-set replacement atomic: a concurrent reader
// never sees a document with a mix of old and new chunks.
type Store interface {
	FetchAllDocuments(ctx context.Context) ([]Document, error)
	FetchDocument(ctx context.Context, id string) (*Document, error)
	SaveDocument(ctx context.Context, doc *Document) error
	DeleteDocument(ctx context.Context, id string) error
	FetchAllChunks(ctx context.Context) ([]Chunk, error)
	FetchChunks(ctx context.Context, documentID string) ([]Chunk, error)
	UpdateChunk(ctx context.Context, chunk Chunk) error
}

// PostgresStore implements Store on PostgreSQL + pgvector.
// It is safe for concurrent use by multiple goroutines; writes for the same
// document id are serialized by row-level locking on the document row.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a store backed by the given connection pool.
// A nil logger defaults to slog.Default().
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, logger: logger}
}

const documentColumns = "id, title, content, source_type, source_path, is_default, content_hash, created_at, updated_at"

// FetchAllDocuments returns every document without its chunks, ordered by
// updated_at descending.
func (s *PostgresStore) FetchAllDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}
	return docs, nil
}

// FetchDocument returns one document with its chunk list, or ErrNotFound.
func (s *PostgresStore) FetchDocument(ctx context.Context, id string) (*Document, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("fetching document %q: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("fetching document %q: %w", id, err)
		}
		return nil, fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	doc, err := scanDocument(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning document %q: %w", id, err)
	}
	rows.Close()

	chunks, err := s.FetchChunks(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Chunks = chunks
	return &doc, nil
}

// SaveDocument upserts a document and replaces its entire chunk set in one
// transaction. When the id already exists, scalar fields are updated and the
// prior chunks are deleted before the new set is inserted; created_at is
// preserved. Zero timestamps default to now.
func (s *PostgresStore) SaveDocument(ctx context.Context, doc *Document) error {
	now := time.Now().UTC()
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save for document %q: %w", doc.ID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (id, title, content, source_type, source_path, is_default, content_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			source_type = EXCLUDED.source_type,
			source_path = EXCLUDED.source_path,
			is_default = EXCLUDED.is_default,
			content_hash = EXCLUDED.content_hash,
			updated_at = EXCLUDED.updated_at`,
		doc.ID, doc.Title, doc.Content, string(doc.SourceType), nullableString(doc.SourcePath),
		doc.IsDefault, doc.ContentHash, createdAt, updatedAt)
	if err != nil {
		return fmt.Errorf("upserting document %q: %w", doc.ID, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM chunks WHERE document_id = $1", doc.ID); err != nil {
		return fmt.Errorf("deleting prior chunks of %q: %w", doc.ID, err)
	}

	if len(doc.Chunks) > 0 {
		batch := &pgx.Batch{}
		for _, ch := range doc.Chunks {
			chunkCreatedAt := ch.CreatedAt
			if chunkCreatedAt.IsZero() {
				chunkCreatedAt = now
			}
			batch.Queue(`
				INSERT INTO chunks (id, document_id, chunk_index, content, embedding, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				ch.ID, doc.ID, ch.ChunkIndex, ch.Content, toVector(ch.Embedding), chunkCreatedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting chunks of %q: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save for document %q: %w", doc.ID, err)
	}

	s.logger.Debug("saved document", "id", doc.ID, "chunks", len(doc.Chunks))
	return nil
}

// DeleteDocument removes a document; its chunks go with it via ON DELETE
// CASCADE. Deleting a missing document is not an error.
func (s *PostgresStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id); err != nil {
		return fmt.Errorf("deleting document %q: %w", id, err)
	}
	s.logger.Debug("deleted document", "id", id)
	return nil
}

const chunkColumns = "id, document_id, chunk_index, content, embedding, created_at"

// FetchAllChunks returns every chunk ordered by (document_id, chunk_index).
func (s *PostgresStore) FetchAllChunks(ctx context.Context) ([]Chunk, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+chunkColumns+" FROM chunks ORDER BY document_id, chunk_index")
	if err != nil {
		return nil, fmt.Errorf("fetching chunks: %w", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

// FetchChunks returns one document's chunks ordered by chunk_index.
func (s *PostgresStore) FetchChunks(ctx context.Context, documentID string) ([]Chunk, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE document_id = $1 ORDER BY chunk_index", documentID)
	if err != nil {
		return nil, fmt.Errorf("fetching chunks of %q: %w", documentID, err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

// UpdateChunk updates a single chunk's content and embedding in place.
// A missing chunk id is a no-op, not an error.
func (s *PostgresStore) UpdateChunk(ctx context.Context, chunk Chunk) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE chunks SET content = $2, embedding = $3 WHERE id = $1",
		chunk.ID, chunk.Content, toVector(chunk.Embedding))
	if err != nil {
		return fmt.Errorf("updating chunk %q: %w", chunk.ID, err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Debug("update skipped, chunk not found", "id", chunk.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var sourceType string
	var sourcePath *string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &sourceType, &sourcePath,
		&doc.IsDefault, &doc.ContentHash, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return Document{}, err
	}
	doc.SourceType = SourceType(sourceType)
	if sourcePath != nil {
		doc.SourcePath = *sourcePath
	}
	return doc, nil
}

func scanChunks(rows pgx.Rows) ([]Chunk, error) {
	var chunks []Chunk
	for rows.Next() {
		var ch Chunk
		var emb *pgvector.Vector
		if err := rows.Scan(&ch.ID, &ch.DocumentID, &ch.ChunkIndex, &ch.Content, &emb, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if emb != nil {
			ch.Embedding = emb.Slice()
		}
		chunks = append(chunks, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching chunks: %w", err)
	}
	return chunks, nil
}

// toVector converts a nullable embedding to its pgvector representation.
func toVector(embedding []float32) *pgvector.Vector {
	if embedding == nil {
		return nil
	}
	v := pgvector.NewVector(embedding)
	return &v
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
