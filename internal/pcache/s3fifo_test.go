package pcache

import "testing"

func TestS3FIFO_SetAndGet(t *testing.T) {
	c := NewS3FIFO(NewMemory(), 10)
	defer c.Close() //nolint:errcheck // test cleanup

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("got %q/%v", v, ok)
	}
}

func TestS3FIFO_MissFallsThroughToBacking(t *testing.T) {
	backing := NewMemory()
	backing.Set("warm", "v")

	c := NewS3FIFO(backing, 10)
	defer c.Close() //nolint:errcheck // test cleanup

	// Not yet in the hot set, but present in the backing store.
	v, ok := c.Get("warm")
	if !ok || v != "v" {
		t.Errorf("expected re-warm from backing store, got %q/%v", v, ok)
	}

	// Second Get should now hit the in-memory layer.
	v, ok = c.Get("warm")
	if !ok || v != "v" {
		t.Errorf("expected hot hit, got %q/%v", v, ok)
	}
}

func TestS3FIFO_EvictsBeyondCapacity(t *testing.T) {
	c := NewS3FIFO(NewMemory(), 2)
	defer c.Close() //nolint:errcheck // test cleanup

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3") // should trigger eviction of the oldest unaccessed entry

	count := 0
	for _, k := range []string{"a", "b", "c"} {
		if _, ok := c.Get(k); ok {
			count++
		}
	}
	if count > 2 {
		t.Errorf("expected eviction to keep at most capacity entries resident, got %d hits", count)
	}
}

func TestS3FIFO_FrequentKeySurvivesEviction(t *testing.T) {
	c := NewS3FIFO(NewMemory(), 4)
	defer c.Close() //nolint:errcheck // test cleanup

	c.Set("hot", "v")
	// Access repeatedly to build frequency before newer keys arrive.
	for i := 0; i < 3; i++ {
		c.Get("hot")
	}

	for i := 0; i < 10; i++ {
		c.Set(string(rune('a'+i)), "x")
	}

	if _, ok := c.Get("hot"); !ok {
		t.Error("expected frequently accessed key to survive eviction pressure")
	}
}

func TestS3FIFO_Delete(t *testing.T) {
	c := NewS3FIFO(NewMemory(), 10)
	defer c.Close() //nolint:errcheck // test cleanup

	c.Set("a", "1")
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Delete")
	}
}
