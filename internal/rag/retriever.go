package rag

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/lumen-app/lumen/internal/embed"
	"github.com/lumen-app/lumen/internal/knowledge"
	"github.com/lumen-app/lumen/internal/vector"
)

// RetrieverConfig tunes the query path.
type RetrieverConfig struct {
	// TopK is the maximum number of results per search. Default 3.
	TopK int

	// Enabled gates retrieval entirely. When false, Search returns empty
	// without touching the embedding backend or the store.
	Enabled bool
}

// DefaultTopK is used when RetrieverConfig.TopK is not positive.
const DefaultTopK = 3

// Retriever answers free-text queries with the most similar stored chunks.
//
// It keeps an in-memory snapshot of all chunks and document titles, loaded
// on first use. The snapshot can go stale after a sync or ingest; call
// Invalidate to reload on the next search. Retriever is safe for concurrent
// use.
type Retriever struct {
	store    knowledge.Store
	embedder embed.Embedder
	topK     int
	enabled  bool
	logger   *slog.Logger

	mu     sync.RWMutex
	loaded bool
	chunks []knowledge.Chunk
	titles map[string]string
}

// NewRetriever creates a Retriever. A nil logger defaults to slog.Default().
func NewRetriever(store knowledge.Store, embedder embed.Embedder, cfg RetrieverConfig, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		store:    store,
		embedder: embedder,
		topK:     topK,
		enabled:  cfg.Enabled,
		logger:   logger,
	}
}

// Search returns the top-K chunks most similar to query, each enriched with
// its document's title.
//
// Search never fails: a blank query, a disabled retriever, an embedding
// failure, or a storage failure all yield an empty result set. Failures are
// logged; to the caller they look the same as "no relevant chunks", so
// missing context never blocks the chat flow.
func (r *Retriever) Search(ctx context.Context, query string) []knowledge.SearchResult {
	if !r.enabled {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, returning no context", "error", err)
		return nil
	}

	chunks, titles, err := r.snapshot(ctx)
	if err != nil {
		r.logger.Warn("loading chunks failed, returning no context", "error", err)
		return nil
	}

	results := vector.Search(queryVec, chunks, r.topK)
	for i := range results {
		results[i].DocumentTitle = titles[results[i].Chunk.DocumentID]
	}
	return results
}

// Invalidate drops the cached snapshot; the next Search reloads from the
// store. Call after a sync or ingest so results reflect the new state.
func (r *Retriever) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.chunks = nil
	r.titles = nil
}

// snapshot returns the cached chunk set and title index, loading both from
// the store on first use.
func (r *Retriever) snapshot(ctx context.Context) ([]knowledge.Chunk, map[string]string, error) {
	r.mu.RLock()
	if r.loaded {
		chunks, titles := r.chunks, r.titles
		r.mu.RUnlock()
		return chunks, titles, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.chunks, r.titles, nil
	}

	chunks, err := r.store.FetchAllChunks(ctx)
	if err != nil {
		return nil, nil, err
	}
	docs, err := r.store.FetchAllDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		titles[doc.ID] = doc.Title
	}

	r.chunks = chunks
	r.titles = titles
	r.loaded = true
	r.logger.Debug("chunk snapshot loaded", "chunks", len(chunks), "documents", len(docs))
	return chunks, titles, nil
}
