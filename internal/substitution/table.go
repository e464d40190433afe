// Package substitution holds the ordered phrase → replacement table consulted
// by stage 1 of the compression pipeline.
//
// Load is idempotent and tries a configurable Loader first; on any failure it
// installs the built-in fallback set of verbose English phrases. The table
// is read-only after Load returns — Add exists only for test augmentation
// and pre-seeding setup.
package substitution

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Entry pairs a source phrase with its replacement. Matching is
// case-insensitive on Source; Replacement is inserted verbatim.
type Entry struct {
	Source      string
	Replacement string
}

// Table is an ordered phrase substitution table, matched longest-source-first
// so a short phrase never consumes a substring of a longer one that would
// otherwise match.
type Table struct {
	once sync.Once

	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty, unloaded Table.
func New() *Table {
	return &Table{}
}

// Load populates the table from loader; on failure (or a nil loader) it
// installs the built-in fallback set. Load is idempotent: only the first
// call does any work.
func (t *Table) Load(ctx context.Context, loader Loader) {
	t.once.Do(func() {
		var mapping map[string]string
		if loader != nil {
			if m, err := loader.Load(ctx); err == nil && len(m) > 0 {
				mapping = m
			}
		}
		if mapping == nil {
			mapping = builtinFallback()
		}
		t.setAll(mapping)
	})
}

// setAll replaces the entry list, sorted by source length descending.
func (t *Table) setAll(mapping map[string]string) {
	entries := make([]Entry, 0, len(mapping))
	for src, repl := range mapping {
		entries = append(entries, Entry{Source: src, Replacement: repl})
	}
	sortByLengthDesc(entries)

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
}

func sortByLengthDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Source) > len(entries[j].Source)
	})
}

// Mappings returns a copy of the table's current entries, longest-source
// first.
func (t *Table) Mappings() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Add inserts or overwrites a single entry, re-sorting the table. Intended
// for test augmentation and pre-serving setup only: it is not safe to call
// concurrently with Apply.
func (t *Table) Add(source, replacement string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	lower := strings.ToLower(source)
	for i := range t.entries {
		if strings.ToLower(t.entries[i].Source) == lower {
			t.entries[i].Replacement = replacement
			sortByLengthDesc(t.entries)
			return
		}
	}
	t.entries = append(t.entries, Entry{Source: source, Replacement: replacement})
	sortByLengthDesc(t.entries)
}

// Apply performs stage 1: scan entries longest-source-first and replace all
// case-insensitive matches of each source phrase with its replacement,
// verbatim.
func (t *Table) Apply(text string) string {
	result := text
	for _, e := range t.Mappings() {
		result = replaceFoldAll(result, e.Source, e.Replacement)
	}
	return result
}

// replaceFoldAll replaces every case-insensitive occurrence of old in s with
// new, inserted verbatim; casing of the surrounding text is left untouched.
func replaceFoldAll(s, old, new string) string {
	if old == "" {
		return s
	}
	lowerS := strings.ToLower(s)
	lowerOld := strings.ToLower(old)

	var b strings.Builder
	b.Grow(len(s))
	start := 0
	for {
		idx := strings.Index(lowerS[start:], lowerOld)
		if idx < 0 {
			b.WriteString(s[start:])
			break
		}
		matchStart := start + idx
		b.WriteString(s[start:matchStart])
		b.WriteString(new)
		start = matchStart + len(old)
	}
	return b.String()
}
