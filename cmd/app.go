package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-app/lumen/db"
	"github.com/lumen-app/lumen/internal/chunk"
	"github.com/lumen-app/lumen/internal/config"
	"github.com/lumen-app/lumen/internal/database"
	"github.com/lumen-app/lumen/internal/embed"
	"github.com/lumen-app/lumen/internal/feed"
	"github.com/lumen-app/lumen/internal/knowledge"
	"github.com/lumen-app/lumen/internal/log"
	"github.com/lumen-app/lumen/internal/rag"
)

// app wires the full knowledge pipeline: configuration, database, store,
// embedder, indexer, syncer, and retriever. Commands build one per
// invocation and close it when done.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	pool      *pgxpool.Pool
	store     knowledge.Store
	indexer   *rag.Indexer
	retriever *rag.Retriever
	syncer    *feed.Syncer
}

// newApp loads configuration, runs pending migrations, and connects every
// component. Logs go to stderr so command output stays clean on stdout.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := log.NewWithWriter(os.Stderr, log.Config{
		Level: cfg.SlogLevel(),
		JSON:  cfg.LogJSON,
	})
	slog.SetDefault(logger)

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := database.Open(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	store := knowledge.NewPostgresStore(pool, logger)
	embedder := embed.NewWordVectorEmbedder(cfg.EmbedderModelPath, logger)
	splitter := chunk.New(
		chunk.WithDelimiter(cfg.ChunkDelimiter),
		chunk.WithChunkSize(cfg.ChunkSize),
	)
	indexer := rag.NewIndexer(store, embedder, splitter, logger)
	retriever := rag.NewRetriever(store, embedder, rag.RetrieverConfig{
		TopK:    cfg.TopK,
		Enabled: cfg.KnowledgeEnabled,
	}, logger)

	client, err := feed.NewClient(cfg.FeedBaseURL, logger,
		feed.WithRequestsPerSecond(cfg.FeedRequestsPerSecond))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating feed client: %w", err)
	}
	syncer := feed.NewSyncer(client, store, indexer, logger,
		feed.WithPageSize(cfg.FeedPageSize))

	return &app{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		store:     store,
		indexer:   indexer,
		retriever: retriever,
		syncer:    syncer,
	}, nil
}

// Close releases the database pool.
func (a *app) Close() {
	a.pool.Close()
}
