package vocabulary

import "testing"

func TestAddAndLookup(t *testing.T) {
	v := New()

	a := v.Add("alpha")
	b := v.Add("beta")
	if a == b {
		t.Error("distinct tokens should get distinct IDs")
	}
	if v.Add("alpha") != a {
		t.Error("re-adding a token should keep its ID")
	}

	if v.ID("alpha") != a || v.Token(a) != "alpha" {
		t.Error("ID/Token round trip broken")
	}
	if v.Len() != 2 {
		t.Errorf("expected 2 tokens, got %d", v.Len())
	}
}

func TestOutOfVocabulary(t *testing.T) {
	v := New()
	v.Add("alpha")

	if got := v.ID("missing"); got != -1 {
		t.Errorf("OOV token should map to -1, got %d", got)
	}
	if got := v.Token(99); got != "" {
		t.Errorf("out-of-range ID should map to empty token, got %q", got)
	}
	if got := v.Token(-1); got != "" {
		t.Errorf("negative ID should map to empty token, got %q", got)
	}
}

func TestFromTextsDeterministic(t *testing.T) {
	texts := [][]string{{"c", "a"}, {"a", "b"}}

	v1 := FromTexts(texts)
	v2 := FromTexts(texts)

	if v1.Len() != 3 {
		t.Fatalf("expected 3 tokens, got %d", v1.Len())
	}
	for _, tok := range []string{"a", "b", "c"} {
		if v1.ID(tok) != v2.ID(tok) {
			t.Errorf("ID assignment not deterministic for %q", tok)
		}
	}
	// Insertion order: c, a, b
	if v1.ID("c") != 0 || v1.ID("a") != 1 || v1.ID("b") != 2 {
		t.Errorf("IDs should follow insertion order, got c=%d a=%d b=%d",
			v1.ID("c"), v1.ID("a"), v1.ID("b"))
	}
}
