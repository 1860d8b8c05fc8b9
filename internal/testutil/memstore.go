package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lumen-app/lumen/internal/knowledge"
)

// MemoryStore is an in-memory knowledge.Store for tests. It reproduces the
// contract of the PostgreSQL store: upsert replaces the whole chunk set,
// deletion cascades, and fetches are ordered.
type MemoryStore struct {
	// FailSaveFor maps document ids to the error their SaveDocument call
	// returns, for failure-isolation tests.
	FailSaveFor map[string]error

	// FetchErr, when set, is returned by every fetch operation.
	FetchErr error

	mu   sync.RWMutex
	docs map[string]*knowledge.Document
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*knowledge.Document)}
}

func (m *MemoryStore) FetchAllDocuments(ctx context.Context) ([]knowledge.Document, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]knowledge.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		d := *doc
		d.Chunks = nil
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

func (m *MemoryStore) FetchDocument(ctx context.Context, id string) (*knowledge.Document, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, knowledge.ErrNotFound)
	}
	d := *doc
	d.Chunks = append([]knowledge.Chunk(nil), doc.Chunks...)
	return &d, nil
}

func (m *MemoryStore) SaveDocument(ctx context.Context, doc *knowledge.Document) error {
	if err, ok := m.FailSaveFor[doc.ID]; ok {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	d := *doc
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}
	if prev, ok := m.docs[doc.ID]; ok {
		d.CreatedAt = prev.CreatedAt
	}
	d.Chunks = append([]knowledge.Chunk(nil), doc.Chunks...)
	m.docs[doc.ID] = &d
	return nil
}

func (m *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *MemoryStore) FetchAllChunks(ctx context.Context) ([]knowledge.Chunk, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var chunks []knowledge.Chunk
	for _, doc := range m.docs {
		chunks = append(chunks, doc.Chunks...)
	}
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].DocumentID != chunks[j].DocumentID {
			return chunks[i].DocumentID < chunks[j].DocumentID
		}
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks, nil
}

func (m *MemoryStore) FetchChunks(ctx context.Context, documentID string) ([]knowledge.Chunk, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[documentID]
	if !ok {
		return nil, nil
	}
	chunks := append([]knowledge.Chunk(nil), doc.Chunks...)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks, nil
}

func (m *MemoryStore) UpdateChunk(ctx context.Context, chunk knowledge.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		for i := range doc.Chunks {
			if doc.Chunks[i].ID == chunk.ID {
				doc.Chunks[i].Content = chunk.Content
				doc.Chunks[i].Embedding = chunk.Embedding
				return nil
			}
		}
	}
	return nil // missing chunk is a no-op, matching the store contract
}

// DocumentCount reports the number of stored documents.
func (m *MemoryStore) DocumentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
