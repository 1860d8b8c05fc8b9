package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumen-app/lumen/internal/chunk"
	"github.com/lumen-app/lumen/internal/knowledge"
	"github.com/lumen-app/lumen/internal/log"
	"github.com/lumen-app/lumen/internal/testutil"
)

func newTestIndexer(store knowledge.Store, embedder *testutil.FakeEmbedder) *Indexer {
	// Small enough that each short test line becomes its own chunk.
	splitter := chunk.New(chunk.WithDelimiter("\n"), chunk.WithChunkSize(12))
	return NewIndexer(store, embedder, splitter, log.NewNop())
}

func TestIndexStoresChunksInOrder(t *testing.T) {
	store := testutil.NewMemoryStore()
	ix := newTestIndexer(store, &testutil.FakeEmbedder{})

	doc := &knowledge.Document{
		ID:      "doc-1",
		Title:   "Lines",
		Content: "first line\nsecond line\nthird line",
	}
	if err := ix.Index(context.Background(), doc); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	chunks, err := store.FetchChunks(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("FetchChunks() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}
	seen := make(map[string]struct{})
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunks[%d].ChunkIndex = %d, want %d", i, c.ChunkIndex, i)
		}
		if c.DocumentID != "doc-1" {
			t.Errorf("chunks[%d].DocumentID = %q", i, c.DocumentID)
		}
		if c.Embedding == nil {
			t.Errorf("chunks[%d] has no embedding", i)
		}
		if c.ID == "" {
			t.Errorf("chunks[%d] has no id", i)
		}
		if _, dup := seen[c.ID]; dup {
			t.Errorf("chunk id %q assigned twice", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
}

func TestIndexKeepsChunkWhenEmbeddingFails(t *testing.T) {
	store := testutil.NewMemoryStore()
	embedder := &testutil.FakeEmbedder{
		FailOn: map[string]error{"[Chunk 2] bad line": errors.New("model crashed")},
	}
	ix := newTestIndexer(store, embedder)

	doc := &knowledge.Document{
		ID:      "doc-1",
		Title:   "Partial",
		Content: "good line\nbad line\nnice line",
	}
	if err := ix.Index(context.Background(), doc); err != nil {
		t.Fatalf("Index() error = %v, one bad chunk must not fail the document", err)
	}

	chunks, err := store.FetchChunks(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("FetchChunks() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3 (failed chunk still stored)", len(chunks))
	}
	if chunks[1].Embedding != nil {
		t.Error("failed chunk should be stored without an embedding")
	}
	if chunks[0].Embedding == nil || chunks[2].Embedding == nil {
		t.Error("healthy chunks should keep their embeddings")
	}
}

func TestIndexFillsContentHash(t *testing.T) {
	store := testutil.NewMemoryStore()
	ix := newTestIndexer(store, &testutil.FakeEmbedder{})

	doc := &knowledge.Document{ID: "doc-1", Title: "Hashed", Content: "some content"}
	if err := ix.Index(context.Background(), doc); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if want := knowledge.HashContent("some content"); doc.ContentHash != want {
		t.Errorf("ContentHash = %q, want %q", doc.ContentHash, want)
	}
}

func TestIndexPreservesGivenContentHash(t *testing.T) {
	store := testutil.NewMemoryStore()
	ix := newTestIndexer(store, &testutil.FakeEmbedder{})

	doc := &knowledge.Document{ID: "doc-1", Content: "body", ContentHash: "precomputed"}
	if err := ix.Index(context.Background(), doc); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if doc.ContentHash != "precomputed" {
		t.Errorf("ContentHash = %q, caller-provided hash must survive", doc.ContentHash)
	}
}

func TestIndexSaveFailure(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.FailSaveFor = map[string]error{"doc-1": errors.New("connection reset")}
	ix := newTestIndexer(store, &testutil.FakeEmbedder{})

	doc := &knowledge.Document{ID: "doc-1", Content: "body"}
	err := ix.Index(context.Background(), doc)
	if err == nil || !strings.Contains(err.Error(), "doc-1") {
		t.Errorf("Index() error = %v, want save failure naming the document", err)
	}
}

func TestIndexText(t *testing.T) {
	store := testutil.NewMemoryStore()
	ix := newTestIndexer(store, &testutil.FakeEmbedder{})

	doc, err := ix.IndexText(context.Background(), "My notes", "remember this")
	if err != nil {
		t.Fatalf("IndexText() error = %v", err)
	}
	if doc.SourceType != knowledge.SourceTypeManual {
		t.Errorf("SourceType = %q, want manual", doc.SourceType)
	}
	if doc.IsDefault {
		t.Error("manual documents must not be flagged as default")
	}
	if doc.ID == "" {
		t.Error("IndexText() should assign a document id")
	}
	if _, err := store.FetchDocument(context.Background(), doc.ID); err != nil {
		t.Errorf("document not persisted: %v", err)
	}
}

func TestIndexTextRejectsBlankContent(t *testing.T) {
	ix := newTestIndexer(testutil.NewMemoryStore(), &testutil.FakeEmbedder{})
	if _, err := ix.IndexText(context.Background(), "Empty", "   \n  "); err == nil {
		t.Error("IndexText() with blank content = nil error")
	}
}

func TestIndexFile(t *testing.T) {
	store := testutil.NewMemoryStore()
	ix := newTestIndexer(store, &testutil.FakeEmbedder{})

	path := filepath.Join(t.TempDir(), "field-notes.txt")
	if err := os.WriteFile(path, []byte("line one\nline two"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	doc, err := ix.IndexFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IndexFile() error = %v", err)
	}
	if doc.Title != "field-notes" {
		t.Errorf("Title = %q, want file name without extension", doc.Title)
	}
	if doc.SourceType != knowledge.SourceTypeFile {
		t.Errorf("SourceType = %q, want file", doc.SourceType)
	}
	if doc.SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", doc.SourcePath, path)
	}
}

func TestIndexFileMissing(t *testing.T) {
	ix := newTestIndexer(testutil.NewMemoryStore(), &testutil.FakeEmbedder{})
	if _, err := ix.IndexFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("IndexFile() on a missing file = nil error")
	}
}
