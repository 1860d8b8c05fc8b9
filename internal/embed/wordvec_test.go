package embed

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumen-app/lumen/internal/log"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectors.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing model file: %v", err)
	}
	return path
}

const testModel = `3 2
hello 1.0 0.0
world 0.0 1.0
sunset 0.5 0.5
`

func TestWordVectorEmbedder_MeanPooling(t *testing.T) {
	e := NewWordVectorEmbedder(writeModel(t, testModel), log.NewNop())

	vec, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	want := []float32{0.5, 0.5}
	if len(vec) != len(want) {
		t.Fatalf("dimension = %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if math.Abs(float64(vec[i]-want[i])) > 1e-6 {
			t.Errorf("vec[%d] = %f, want %f", i, vec[i], want[i])
		}
	}
}

func TestWordVectorEmbedder_SkipsUnknownWords(t *testing.T) {
	e := NewWordVectorEmbedder(writeModel(t, testModel), log.NewNop())

	withUnknown, err := e.Embed(context.Background(), "hello zzzzz")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	alone, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range alone {
		if withUnknown[i] != alone[i] {
			t.Errorf("unknown word changed pooling: %v vs %v", withUnknown, alone)
			break
		}
	}
}

func TestWordVectorEmbedder_CaseAndPunctuation(t *testing.T) {
	e := NewWordVectorEmbedder(writeModel(t, testModel), log.NewNop())

	vec, err := e.Embed(context.Background(), "Hello, WORLD!")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("dimension = %d, want 2", len(vec))
	}
}

func TestWordVectorEmbedder_EmptyText(t *testing.T) {
	e := NewWordVectorEmbedder(writeModel(t, testModel), log.NewNop())

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := e.Embed(context.Background(), text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Embed(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestWordVectorEmbedder_NoTokens(t *testing.T) {
	e := NewWordVectorEmbedder(writeModel(t, testModel), log.NewNop())

	if _, err := e.Embed(context.Background(), "qqq zzz"); !errors.Is(err, ErrNoTokens) {
		t.Errorf("error = %v, want ErrNoTokens", err)
	}
}

func TestWordVectorEmbedder_ModelUnavailable(t *testing.T) {
	e := NewWordVectorEmbedder(filepath.Join(t.TempDir(), "missing.txt"), log.NewNop())

	if _, err := e.Embed(context.Background(), "hello"); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
	// Load failure is sticky; a second call reports the same class of error.
	if _, err := e.Embed(context.Background(), "hello"); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("second call error = %v, want ErrModelUnavailable", err)
	}
}

func TestWordVectorEmbedder_HeaderlessModel(t *testing.T) {
	// No "count dimension" header; dimension inferred from the first row.
	model := "alpha 0.1 0.2 0.3\nbeta 0.4 0.5 0.6\n"
	e := NewWordVectorEmbedder(writeModel(t, model), log.NewNop())

	dim, err := e.Dimension()
	if err != nil {
		t.Fatalf("Dimension: %v", err)
	}
	if dim != 3 {
		t.Errorf("dimension = %d, want 3", dim)
	}
}

func TestWordVectorEmbedder_InconsistentDimensions(t *testing.T) {
	model := "alpha 0.1 0.2\nbeta 0.4 0.5 0.6\n"
	e := NewWordVectorEmbedder(writeModel(t, model), log.NewNop())

	if _, err := e.Embed(context.Background(), "alpha"); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
}

func TestWordVectorEmbedder_CancelledContext(t *testing.T) {
	e := NewWordVectorEmbedder(writeModel(t, testModel), log.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Embed(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
