package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// slowEmbedder returns a vector encoding the input's index and finishes
// later for earlier inputs, so completion order is the reverse of input
// order. Inputs listed in failOn return an error instead.
type slowEmbedder struct {
	total  int
	failOn map[string]error
}

func (s *slowEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var idx int
	if _, err := fmt.Sscanf(text, "text-%d", &idx); err != nil {
		return nil, fmt.Errorf("unexpected input %q", text)
	}
	delay := time.Duration(s.total-idx) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err, ok := s.failOn[text]; ok {
		return nil, err
	}
	return []float32{float32(idx)}, nil
}

func TestBatchEmbed_PreservesInputOrder(t *testing.T) {
	const n = 20
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%d", i)
	}

	vecs, errs, err := BatchEmbed(context.Background(), &slowEmbedder{total: n}, texts)
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	for i, vec := range vecs {
		if errs[i] != nil {
			t.Fatalf("unexpected error at %d: %v", i, errs[i])
		}
		if len(vec) != 1 || vec[0] != float32(i) {
			t.Errorf("vecs[%d] = %v, want [%d]", i, vec, i)
		}
	}
}

func TestBatchEmbed_PerItemFailure(t *testing.T) {
	boom := errors.New("boom")
	e := &slowEmbedder{total: 4, failOn: map[string]error{"text-2": boom}}
	texts := []string{"text-0", "text-1", "text-2", "text-3"}

	vecs, errs, err := BatchEmbed(context.Background(), e, texts)
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if vecs[2] != nil {
		t.Errorf("vecs[2] = %v, want nil for failed item", vecs[2])
	}
	if !errors.Is(errs[2], boom) {
		t.Errorf("errs[2] = %v, want boom", errs[2])
	}
	for _, i := range []int{0, 1, 3} {
		if vecs[i] == nil || errs[i] != nil {
			t.Errorf("item %d: vec=%v err=%v, want success", i, vecs[i], errs[i])
		}
	}
}

func TestBatchEmbed_EmptyInput(t *testing.T) {
	vecs, errs, err := BatchEmbed(context.Background(), &slowEmbedder{}, nil)
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(vecs) != 0 || len(errs) != 0 {
		t.Errorf("got %d vecs, %d errs; want 0, 0", len(vecs), len(errs))
	}
}

func TestBatchEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	texts := make([]string, 32)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%d", i)
	}
	_, _, err := BatchEmbed(ctx, &slowEmbedder{total: len(texts)}, texts)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  spaced   out  ", "spaced out"},
		{"don't stop", "don't stop"},
		{"...", ""},
		{"ISO-100", "iso-100"},
	}
	for _, tt := range tests {
		got := strings.Join(tokenize(tt.in), " ")
		if got != tt.want {
			t.Errorf("tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
