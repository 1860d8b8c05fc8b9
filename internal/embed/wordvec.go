package embed

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// WordVectorEmbedder embeds text by averaging pre-trained word vectors
// (mean pooling). The model file uses the common text format: an optional
// "count dimension" header line followed by one "word v1 v2 ... vd" line
// per word.
//
// The model is loaded lazily on first use and kept in memory; loading is
// idempotent and safe for concurrent use.
type WordVectorEmbedder struct {
	modelPath string
	logger    *slog.Logger

	loadOnce  sync.Once
	loadErr   error
	vectors   map[string][]float32
	dimension int
}

// NewWordVectorEmbedder creates an embedder backed by the word-vector model
// at modelPath. The file is not touched until the first Embed call.
func NewWordVectorEmbedder(modelPath string, logger *slog.Logger) *WordVectorEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &WordVectorEmbedder{
		modelPath: modelPath,
		logger:    logger,
	}
}

// Dimension returns the vector dimension of the loaded model, loading it if
// necessary.
func (e *WordVectorEmbedder) Dimension() (int, error) {
	if err := e.load(); err != nil {
		return 0, err
	}
	return e.dimension, nil
}

// Embed tokenizes text, looks up each token's word vector, and returns the
// component-wise mean. Tokens without a vector are skipped.
//
// Fails with ErrEmptyText for blank input, ErrModelUnavailable when the model
// cannot be loaded, and ErrNoTokens when no token resolves to a vector.
func (e *WordVectorEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.load(); err != nil {
		return nil, err
	}

	sum := make([]float64, e.dimension)
	found := 0
	for _, token := range tokenize(text) {
		vec, ok := e.vectors[token]
		if !ok {
			continue
		}
		for i, v := range vec {
			sum[i] += float64(v)
		}
		found++
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTokens, truncate(text, 40))
	}

	mean := make([]float32, e.dimension)
	for i, v := range sum {
		mean[i] = float32(v / float64(found))
	}
	return mean, nil
}

// load reads the model file exactly once.
func (e *WordVectorEmbedder) load() error {
	e.loadOnce.Do(func() {
		vectors, dim, err := readWordVectors(e.modelPath)
		if err != nil {
			e.loadErr = fmt.Errorf("%w: %v", ErrModelUnavailable, err)
			return
		}
		e.vectors = vectors
		e.dimension = dim
		e.logger.Info("word vector model loaded",
			"path", e.modelPath,
			"words", len(vectors),
			"dimension", dim)
	})
	return e.loadErr
}

func readWordVectors(path string) (map[string][]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	vectors := make(map[string][]float32)
	dimension := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	first := true
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		// fastText-style "count dimension" header.
		if first && len(fields) == 2 {
			first = false
			if _, err := strconv.Atoi(fields[0]); err == nil {
				if d, err := strconv.Atoi(fields[1]); err == nil {
					dimension = d
					continue
				}
			}
		}
		first = false

		word := strings.ToLower(fields[0])
		values := fields[1:]
		if dimension == 0 {
			dimension = len(values)
		}
		if len(values) != dimension {
			return nil, 0, fmt.Errorf("line %d: expected %d components, got %d", line, dimension, len(values))
		}

		vec := make([]float32, dimension)
		for i, s := range values {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, 0, fmt.Errorf("line %d: parsing component %d: %v", line, i, err)
			}
			vec[i] = float32(v)
		}
		vectors[word] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	if len(vectors) == 0 || dimension == 0 {
		return nil, 0, fmt.Errorf("model file %s contains no vectors", path)
	}
	return vectors, dimension, nil
}

// tokenize lowercases text and splits it into words, stripping surrounding
// punctuation so "Hello," matches the model entry "hello".
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
