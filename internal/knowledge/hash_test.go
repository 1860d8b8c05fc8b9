package knowledge

import "testing"

func TestHashContent(t *testing.T) {
	a := HashContent("some content")
	b := HashContent("some content")
	if a != b {
		t.Errorf("same content hashed differently: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(a))
	}
	if c := HashContent("other content"); c == a {
		t.Error("distinct content produced the same hash")
	}
	if HashContent("") == "" {
		t.Error("empty content should still hash to a value")
	}
}
