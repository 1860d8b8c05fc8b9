package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lumen-app/lumen/internal/knowledge"
)

// Document id prefixes for synced feed content. The suffix is the remote
// item's own id, making the mapping deterministic in both directions.
const (
	articleIDPrefix = "article-"
	photoIDPrefix   = "photo-"
)

// DefaultPageSize is how many articles are requested per feed page.
const DefaultPageSize = 100

// Source is the slice of the feed API the syncer needs.
type Source interface {
	FetchArticles(ctx context.Context, page, pageSize int) ([]Article, error)
	FetchPhotos(ctx context.Context) ([]Photo, error)
}

// Ingester runs a document through the chunk → embed → store pipeline.
type Ingester interface {
	Index(ctx context.Context, doc *knowledge.Document) error
}

// SyncResult summarizes one reconciliation pass.
type SyncResult struct {
	Added    int
	Updated  int
	Deleted  int
	Failed   int
	Duration time.Duration
}

// Syncer keeps the default (feed-synced) subset of the knowledge store
// congruent with the remote article and photo feeds. User-authored
// documents are never touched.
type Syncer struct {
	source   Source
	store    knowledge.Store
	ingester Ingester
	pageSize int
	logger   *slog.Logger
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithPageSize sets how many articles are requested per feed page.
// Non-positive sizes are ignored.
func WithPageSize(size int) SyncerOption {
	return func(s *Syncer) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewSyncer creates a Syncer. A nil logger defaults to slog.Default().
func NewSyncer(source Source, store knowledge.Store, ingester Ingester, logger *slog.Logger, opts ...SyncerOption) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Syncer{
		source:   source,
		store:    store,
		ingester: ingester,
		pageSize: DefaultPageSize,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NeedsSync reports whether a sync pass should run. The policy is "always":
// a pass against an unchanged feed is cheap (hash comparisons only), and
// cadence is the caller's concern.
func (s *Syncer) NeedsSync(ctx context.Context) bool {
	return true
}

// SyncDefaultKnowledge reconciles the store's default documents against the
// remote feeds: new remote items are ingested, items whose content changed
// are re-ingested, and documents whose remote item disappeared are deleted.
//
// A feed fetch failure aborts the whole pass. A failure ingesting or
// deleting one document is logged and counted, and the pass continues with
// the next document.
func (s *Syncer) SyncDefaultKnowledge(ctx context.Context) (*SyncResult, error) {
	start := time.Now()
	result := &SyncResult{}

	existingArticles, existingPhotos, err := s.existingDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching existing documents: %w", err)
	}

	currentArticles, err := s.syncArticles(ctx, existingArticles, result)
	if err != nil {
		return nil, err
	}
	currentPhotos, err := s.syncPhotos(ctx, existingPhotos, result)
	if err != nil {
		return nil, err
	}

	if err := s.cleanupDeleted(ctx, existingArticles, currentArticles, existingPhotos, currentPhotos, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	s.logger.Info("default knowledge sync completed",
		"added", result.Added,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"failed", result.Failed,
		"duration", result.Duration.String())
	return result, nil
}

// existingDefaults partitions the store's default documents by source:
// remote item id → stored content hash.
func (s *Syncer) existingDefaults(ctx context.Context) (articles, photos map[string]string, err error) {
	docs, err := s.store.FetchAllDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	articles = make(map[string]string)
	photos = make(map[string]string)
	for _, doc := range docs {
		if !doc.IsDefault {
			continue
		}
		if id, ok := strings.CutPrefix(doc.ID, articleIDPrefix); ok {
			articles[id] = doc.ContentHash
		} else if id, ok := strings.CutPrefix(doc.ID, photoIDPrefix); ok {
			photos[id] = doc.ContentHash
		}
	}
	return articles, photos, nil
}

// syncArticles pages through the article feed until a short page signals the
// end of the list, ingesting new and changed articles. It returns the set of
// article ids currently present remotely.
func (s *Syncer) syncArticles(ctx context.Context, existing map[string]string, result *SyncResult) (map[string]struct{}, error) {
	current := make(map[string]struct{})

	for page := 1; ; page++ {
		items, err := s.source.FetchArticles(ctx, page, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching article page %d: %w", page, err)
		}

		for _, article := range items {
			current[article.ID] = struct{}{}
			s.ingestItem(ctx,
				articleIDPrefix+article.ID,
				article.Title,
				buildArticleContent(article),
				existing, article.ID, result)
		}

		if len(items) < s.pageSize {
			return current, nil
		}
	}
}

// syncPhotos mirrors syncArticles for the flat photo list.
func (s *Syncer) syncPhotos(ctx context.Context, existing map[string]string, result *SyncResult) (map[string]struct{}, error) {
	photos, err := s.source.FetchPhotos(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching photos: %w", err)
	}

	current := make(map[string]struct{}, len(photos))
	for _, photo := range photos {
		current[photo.ID] = struct{}{}
		s.ingestItem(ctx,
			photoIDPrefix+photo.ID,
			photo.Title,
			buildPhotoContent(photo),
			existing, photo.ID, result)
	}
	return current, nil
}

// ingestItem runs one feed item through the ingest pipeline when it is new
// or its content changed since the last sync. Failures are logged and
// counted, never fatal.
func (s *Syncer) ingestItem(ctx context.Context, docID, title, content string, existing map[string]string, sourceID string, result *SyncResult) {
	hash := knowledge.HashContent(content)
	prevHash, known := existing[sourceID]
	if known && prevHash == hash {
		return
	}

	doc := &knowledge.Document{
		ID:          docID,
		Title:       title,
		Content:     content,
		IsDefault:   true,
		ContentHash: hash,
	}
	if err := s.ingester.Index(ctx, doc); err != nil {
		s.logger.Warn("failed to ingest feed item, skipping",
			"document_id", docID,
			"error", err)
		result.Failed++
		return
	}

	if known {
		result.Updated++
		s.logger.Debug("re-ingested changed feed item", "document_id", docID)
	} else {
		result.Added++
		s.logger.Debug("ingested new feed item", "document_id", docID)
	}
}

// cleanupDeleted removes default documents whose remote item no longer
// exists in the feed.
func (s *Syncer) cleanupDeleted(ctx context.Context, existingArticles map[string]string, currentArticles map[string]struct{}, existingPhotos map[string]string, currentPhotos map[string]struct{}, result *SyncResult) error {
	deleted := make(map[string]struct{})
	for id := range existingArticles {
		if _, ok := currentArticles[id]; !ok {
			deleted[articleIDPrefix+id] = struct{}{}
		}
	}
	for id := range existingPhotos {
		if _, ok := currentPhotos[id]; !ok {
			deleted[photoIDPrefix+id] = struct{}{}
		}
	}
	if len(deleted) == 0 {
		return nil
	}

	// Re-fetch so the deletion step reads post-sync state.
	docs, err := s.store.FetchAllDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetching documents for cleanup: %w", err)
	}
	for _, doc := range docs {
		if !doc.IsDefault {
			continue
		}
		if _, gone := deleted[doc.ID]; !gone {
			continue
		}
		if err := s.store.DeleteDocument(ctx, doc.ID); err != nil {
			s.logger.Warn("failed to delete stale document, skipping",
				"document_id", doc.ID,
				"error", err)
			result.Failed++
			continue
		}
		result.Deleted++
		s.logger.Debug("deleted stale feed document", "document_id", doc.ID)
	}
	return nil
}
