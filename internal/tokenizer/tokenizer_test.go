package tokenizer

import "testing"

func TestCount_EmptyInput(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	n, err := c.Count("")
	if err != nil {
		t.Fatalf("Count(\"\"): %v", err)
	}
	if n != 0 {
		t.Errorf("Count(\"\") = %d, want 0", n)
	}
}

func TestCount_NotInitialized(t *testing.T) {
	c := New()
	if _, err := c.Count("hello world"); err != ErrNotInitialized {
		t.Errorf("Count before Init: got err=%v, want ErrNotInitialized", err)
	}
}

func TestCount_HelloWorld(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	n, err := c.Count("hello world")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count(\"hello world\") = %d, want 2", n)
	}
}

func TestCount_Deterministic(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	text := "The quick brown fox jumps over the lazy dog."
	a, err := c.Count(text)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	b, _ := c.Count(text)
	if a != b {
		t.Errorf("Count not deterministic: %d != %d", a, b)
	}
}

func TestInit_Idempotent(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := c.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if !c.Ready() {
		t.Error("expected Ready() after Init")
	}
}

func TestEstimateCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abcd", 1},
		{"abcde", 2},
		{"abcdefgh", 2},
	}
	for _, c := range cases {
		if got := EstimateCount(c.text); got != c.want {
			t.Errorf("EstimateCount(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}
