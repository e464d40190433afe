package substitution

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Loader supplies the substitution map from some external source. The core
// contract is this single method; transport is free to choose (file, HTTP,
// embedded asset, …). A LoaderUnavailable condition is never surfaced to
// callers — Table.Load silently installs the built-in fallback instead.
type Loader interface {
	Load(ctx context.Context) (map[string]string, error)
}

// FileLoader reads a JSON object of source→replacement pairs from a local
// path; a missing or unparsable file is reported as an error rather than
// silently defaulting, leaving that decision to the caller (CachedLoader
// falls back to its cached snapshot, Table.Load falls back to the built-in
// set).
type FileLoader struct {
	Path string
}

// Load reads and parses the JSON file at Path.
func (l FileLoader) Load(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(l.Path) //nolint:gosec // G703: path comes from trusted config, not user input
	if err != nil {
		return nil, fmt.Errorf("read substitution source %q: %w", l.Path, err)
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parse substitution source %q: %w", l.Path, err)
	}
	return mapping, nil
}

// CachedLoader wraps a primary Loader with a persistent fallback cache: on a
// successful Load the result is written to Store; on failure the last good
// cached mapping is returned instead of propagating the error, so a
// transient source outage still leaves the process with real entries rather
// than the generic built-in set.
type CachedLoader struct {
	Primary Loader
	Store   Store
}

// Store is the minimal persistence contract CachedLoader needs; satisfied by
// internal/pcache.Cache.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

const cachedLoaderKey = "substitution_table_snapshot"

// Load tries Primary first; on success the mapping is serialized into Store
// for next time. On failure it returns the last cached snapshot, if any.
func (l CachedLoader) Load(ctx context.Context) (map[string]string, error) {
	if l.Primary != nil {
		if m, err := l.Primary.Load(ctx); err == nil && len(m) > 0 {
			if l.Store != nil {
				if data, mErr := json.Marshal(m); mErr == nil {
					l.Store.Set(cachedLoaderKey, string(data))
				}
			}
			return m, nil
		}
	}
	if l.Store != nil {
		if raw, ok := l.Store.Get(cachedLoaderKey); ok {
			var m map[string]string
			if err := json.Unmarshal([]byte(raw), &m); err == nil && len(m) > 0 {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("substitution: no primary source and no cached snapshot")
}
