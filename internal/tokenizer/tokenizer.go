// Package tokenizer wraps a cl100k_base BPE encoding and exposes exact token
// counts to the rest of the pipeline.
//
// Counting is the only place the compression pipeline needs an exact,
// model-compatible token count: the ROI evaluator (internal/roi) uses it to
// decide whether a candidate n-gram substitution actually saves tokens, and
// the Result record (internal/pipeline) uses it to report original and
// compressed token counts.
//
// Initialization loads the encoding's merge table once and shares it across
// goroutines; Count is safe for concurrent callers after Init returns nil.
package tokenizer

import (
	"errors"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// ErrNotInitialized is returned by Count when Init has not yet succeeded.
var ErrNotInitialized = errors.New("tokenizer: not initialized")

// encodingName is the BPE vocabulary this package guarantees to match.
const encodingName = "cl100k_base"

// Counter counts tokens using the cl100k_base BPE encoding.
// The zero value is not ready for use; call Init before Count.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// New returns a Counter that has not yet loaded its vocabulary.
func New() *Counter {
	return &Counter{}
}

// Init loads the cl100k_base vocabulary. It is idempotent: subsequent calls
// return the same outcome as the first without reloading. Init is safe to
// call from multiple goroutines; only one load occurs.
func (c *Counter) Init() error {
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			c.err = err
			return
		}
		c.enc = enc
	})
	return c.err
}

// Ready reports whether Init has completed successfully.
func (c *Counter) Ready() bool {
	return c.enc != nil && c.err == nil
}

// Count returns the exact cl100k_base token count for text. Empty input
// returns 0 without touching the encoder. Returns ErrNotInitialized if Init
// has not yet succeeded — callers that need ROI-accurate counts must not
// swallow this error and fall back silently; an approximate count would let
// a profitable-looking substitution actually increase the real token count.
func (c *Counter) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if !c.Ready() {
		return 0, ErrNotInitialized
	}
	return len(c.enc.Encode(text, nil, nil)), nil
}

// EstimateCount returns a coarse ⌈len/4⌉ estimate usable before Init
// completes. It must only be used for logging and diagnostics — never for
// ROI decisions, which require the exact encoder (see Count).
func EstimateCount(text string) int {
	if text == "" {
		return 0
	}
	n := len([]rune(text))
	return (n + 3) / 4
}
