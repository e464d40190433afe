package tokenizer

import (
	"strconv"

	"promptcompress/internal/pcache"
)

// MemoizedCounter wraps a Counter with a cache keyed by the exact text
// counted. Stage 3 re-examines overlapping substrings at every n-gram
// length from 10 down to 2, and the ROI evaluator re-derives the same
// phrase's count on every candidate it scores (internal/roi.Evaluator);
// across a long-running service, the same high-traffic phrases recur call
// after call. Memoizing avoids re-running the BPE merge table over text
// it has already encoded, at the cost of one cache entry per distinct
// phrase/reference/annotation ever scored.
//
// This is deliberately separate from internal/substitution's CachedLoader,
// which persists a single whole-table snapshot; here the key space is
// one entry per scored phrase, so a capacity-bounded cache is what keeps
// memory proportional to working-set size rather than to total distinct
// phrases ever seen.
type MemoizedCounter struct {
	*Counter
	cache pcache.Cache
}

// Memoize wraps inner with cache. inner must already be Init'd by the
// caller; Memoize does not call Init itself.
func Memoize(inner *Counter, cache pcache.Cache) *MemoizedCounter {
	return &MemoizedCounter{Counter: inner, cache: cache}
}

// Count returns the cached token count for text if the cache already holds
// an entry for it; otherwise it delegates to the wrapped Counter and stores
// the result before returning.
func (m *MemoizedCounter) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if raw, ok := m.cache.Get(text); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n, nil
		}
	}
	n, err := m.Counter.Count(text)
	if err != nil {
		return 0, err
	}
	m.cache.Set(text, strconv.Itoa(n))
	return n, nil
}
