// Package embed converts text into fixed-dimension vectors.
//
// The Embedder interface is the seam between the knowledge engine and
// whatever embedding backend is configured; WordVectorEmbedder is the
// built-in backend, pooling pre-trained word vectors loaded from disk.
package embed

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyText indicates the input text is blank after trimming.
	ErrEmptyText = errors.New("empty text")

	// ErrModelUnavailable indicates the embedding backend could not be loaded.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrNoTokens indicates tokenization yielded no term with a known vector.
	ErrNoTokens = errors.New("no embeddable tokens")
)

// Embedder generates a fixed-dimension embedding vector for a text.
// Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// batchParallelism bounds concurrent Embed calls in BatchEmbed.
const batchParallelism = 8

// BatchEmbed embeds every text concurrently and returns the vectors in input
// order, regardless of completion order. A text that fails to embed leaves a
// nil vector at its position with the cause at the same index in errs, so
// callers can degrade per item. The final error is non-nil only when the
// context is cancelled, in which case the partial results are meaningless.
func BatchEmbed(ctx context.Context, e Embedder, texts []string) (vecs [][]float32, errs []error, err error) {
	vecs = make([][]float32, len(texts))
	errs = make([]error, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchParallelism)

	for i, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, embedErr := e.Embed(ctx, text)
			if embedErr != nil {
				if errors.Is(embedErr, context.Canceled) || errors.Is(embedErr, context.DeadlineExceeded) {
					return embedErr
				}
				errs[i] = embedErr
				return nil
			}
			vecs[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return vecs, errs, nil
}
