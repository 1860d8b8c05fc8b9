package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-app/lumen/internal/chunk"
	"github.com/lumen-app/lumen/internal/embed"
	"github.com/lumen-app/lumen/internal/knowledge"
)

// Indexer drives documents through the chunk → embed → store pipeline.
type Indexer struct {
	store    knowledge.Store
	embedder embed.Embedder
	splitter *chunk.Splitter
	logger   *slog.Logger
}

// NewIndexer creates an Indexer. A nil logger defaults to slog.Default().
func NewIndexer(store knowledge.Store, embedder embed.Embedder, splitter *chunk.Splitter, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		store:    store,
		embedder: embedder,
		splitter: splitter,
		logger:   logger,
	}
}

// Index chunks doc.Content, embeds each chunk, attaches the resulting chunk
// list to doc, and saves it. A chunk whose embedding fails is stored without
// a vector; only storage failures and cancellation fail the document.
func (ix *Indexer) Index(ctx context.Context, doc *knowledge.Document) error {
	texts := ix.splitter.Split(doc.Content)

	vecs, errs, err := embed.BatchEmbed(ctx, ix.embedder, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks of %q: %w", doc.ID, err)
	}

	now := time.Now().UTC()
	chunks := make([]knowledge.Chunk, 0, len(texts))
	for i, text := range texts {
		if errs[i] != nil {
			ix.logger.Warn("embedding failed, storing chunk without vector",
				"document_id", doc.ID,
				"chunk_index", i,
				"error", errs[i])
		}
		chunks = append(chunks, knowledge.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    text,
			Embedding:  vecs[i],
			CreatedAt:  now,
		})
	}
	doc.Chunks = chunks
	if doc.ContentHash == "" {
		doc.ContentHash = knowledge.HashContent(doc.Content)
	}

	if err := ix.store.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("saving document %q: %w", doc.ID, err)
	}

	ix.logger.Debug("indexed document",
		"id", doc.ID,
		"chunks", len(chunks))
	return nil
}

// IndexText ingests manually entered content as a user-authored document.
func (ix *Indexer) IndexText(ctx context.Context, title, content string) (*knowledge.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is empty")
	}
	doc := &knowledge.Document{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    content,
		SourceType: knowledge.SourceTypeManual,
	}
	if err := ix.Index(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// IndexFile ingests a local text file as a user-authored document. The file
// name (without extension) becomes the title.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (*knowledge.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	doc := &knowledge.Document{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    string(data),
		SourceType: knowledge.SourceTypeFile,
		SourcePath: path,
	}
	if err := ix.Index(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
