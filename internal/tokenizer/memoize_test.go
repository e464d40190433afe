package tokenizer

import (
	"testing"

	"promptcompress/internal/pcache"
)

func TestMemoizedCounter_MatchesUnderlyingCounter(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	want, err := c.Count("the advanced machine learning pipeline")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	m := Memoize(c, pcache.NewMemory())
	got, err := m.Count("the advanced machine learning pipeline")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if got != want {
		t.Errorf("MemoizedCounter.Count = %d, want %d", got, want)
	}
}

func TestMemoizedCounter_PopulatesCacheOnFirstCall(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cache := pcache.NewMemory()
	m := Memoize(c, cache)

	if _, err := m.Count("in order to improve performance"); err != nil {
		t.Fatalf("Count: %v", err)
	}
	if _, ok := cache.Get("in order to improve performance"); !ok {
		t.Error("expected first Count call to populate the cache entry")
	}
}

func TestMemoizedCounter_ServesFromCacheOnSecondCall(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cache := pcache.NewMemory()
	m := Memoize(c, cache)

	first, err := m.Count("cat dog runs")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	// Corrupt the backing cache entry, forcing a mismatch if Count re-ran
	// the encoder instead of trusting the cached value.
	cache.Set("cat dog runs", "999")
	second, err := m.Count("cat dog runs")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if second != 999 {
		t.Errorf("expected second call to serve the (corrupted) cached value 999, got %d", second)
	}
	if first == second {
		t.Skip("encoder happened to produce 999 tokens; corruption check inconclusive")
	}
}

func TestMemoizedCounter_EmptyInputBypassesCache(t *testing.T) {
	c := New()
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	m := Memoize(c, pcache.NewMemory())
	n, err := m.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count(\"\") = %d, want 0", n)
	}
}

func TestMemoizedCounter_ReadyDelegatesToWrapped(t *testing.T) {
	c := New()
	m := Memoize(c, pcache.NewMemory())
	if m.Ready() {
		t.Error("expected Ready() false before the wrapped Counter is initialized")
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !m.Ready() {
		t.Error("expected Ready() true after the wrapped Counter is initialized")
	}
}
