// Package vector ranks chunk embeddings against a query embedding by cosine
// similarity. Ranking is brute-force over an in-memory chunk set, which is
// the right trade-off for a single-device knowledge base of a few thousand
// chunks.
package vector

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/lumen-app/lumen/internal/knowledge"
)

// CosineSimilarity returns the cosine similarity of a and b, in [-1, 1].
// Vectors of different lengths have zero similarity by definition, as does
// any pair involving a zero vector; neither case is an error.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Search ranks chunks against the query embedding and returns at most topK
// results ordered by similarity descending, keeping only strictly positive
// scores. Chunks without an embedding, and chunks whose embedding dimension
// differs from the query's, are skipped. Equal scores keep the input chunk
// order (stable sort), which makes result ordering reproducible.
//
// DocumentTitle is left blank; the retrieval layer resolves it.
func Search(query []float32, chunks []knowledge.Chunk, topK int) []knowledge.SearchResult {
	if topK <= 0 || len(query) == 0 {
		return nil
	}

	type scored struct {
		chunk      knowledge.Chunk
		similarity float64
	}
	candidates := make([]scored, 0, len(chunks))
	for _, ch := range chunks {
		if ch.Embedding == nil || len(ch.Embedding) != len(query) {
			continue
		}
		candidates = append(candidates, scored{
			chunk:      ch,
			similarity: CosineSimilarity(query, ch.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]knowledge.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if c.similarity <= 0 {
			continue
		}
		results = append(results, knowledge.SearchResult{
			ID:         uuid.New().String(),
			Chunk:      c.chunk,
			Similarity: c.similarity,
		})
	}
	return results
}
