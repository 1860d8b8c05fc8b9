// Package testutil provides shared testing utilities for the lumen project:
// a deterministic embedder, an in-memory knowledge store, and a
// PostgreSQL+pgvector test container.
package testutil

import (
	"context"
	"hash/fnv"
	"sync"
)

// FakeEmbedder is a deterministic embed.Embedder for tests. The same text
// always produces the same vector, and distinct texts almost always differ,
// so similarity ordering is stable across runs without a real model.
type FakeEmbedder struct {
	// Dim is the dimension of generated vectors. Default 4.
	Dim int

	// Vectors overrides the generated vector for specific texts.
	Vectors map[string][]float32

	// FailOn maps texts to the error their Embed call returns.
	FailOn map[string]error

	mu    sync.Mutex
	calls int
}

// Embed returns a deterministic vector derived from text.
func (f *FakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.FailOn[text]; ok {
		return nil, err
	}
	if vec, ok := f.Vectors[text]; ok {
		return vec, nil
	}

	dim := f.Dim
	if dim <= 0 {
		dim = 4
	}
	vec := make([]float32, dim)
	for i := range vec {
		h := fnv.New32a()
		h.Write([]byte(text))
		h.Write([]byte{byte(i)})
		// Map the hash into (0, 1] so vectors are never zero.
		vec[i] = float32(h.Sum32()%1000+1) / 1000
	}
	return vec, nil
}

// Calls reports how many times Embed was invoked.
func (f *FakeEmbedder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
