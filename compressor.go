// Package compressor is the public entry point to the prompt compression
// engine. It wraps internal/pipeline, internal/tokenizer, and
// internal/substitution behind the three calls a caller needs: Init,
// IsReady, and Compress, plus SetSummarizer for swapping the stage-6
// backend. cmd/compress is the one-shot CLI built on this package;
// cmd/compress-service wires internal/pipeline directly so it can expose
// the long-running process's metrics alongside the HTTP surface.
package compressor

import (
	"context"
	"sync"

	"promptcompress/internal/config"
	"promptcompress/internal/logger"
	"promptcompress/internal/metrics"
	"promptcompress/internal/pcache"
	"promptcompress/internal/pipeline"
	"promptcompress/internal/substitution"
	"promptcompress/internal/summarizer"
	"promptcompress/internal/tokenizer"
)

// Options controls a single Compress call. Aggressive enables stage 5
// (semantic pruning) and stage 6 (summarization).
type Options = pipeline.Options

// Result is the structured output of a Compress call.
type Result = pipeline.Result

// Summarizer is the stage-6 pluggability contract; implementations may be
// installed via SetSummarizer.
type Summarizer = summarizer.Summarizer

// roiCacheCapacity bounds the in-memory memoization layer fronting the ROI
// evaluator's token counting (internal/tokenizer.MemoizedCounter). Unlike
// the substitution table's cache, this one is never persisted to disk:
// token counts are cheap, deterministic, purely local recomputations, so
// there is nothing worth surviving a restart for — only the working-set
// bound matters.
const roiCacheCapacity = 4096

var (
	initOnce sync.Once
	initErr  error
	driver   *pipeline.Driver
)

// Init loads the tokenizer vocabulary and the phrase substitution table. It
// is idempotent and safe to call from multiple goroutines; only the first
// call does any work. Compress and IsReady both require Init to have
// succeeded at least once.
func Init(cfg *config.Config) error {
	initOnce.Do(func() {
		log := logger.New("COMPRESSOR", cfg.LogLevel)

		tok := tokenizer.New()
		if err := tok.Init(); err != nil {
			initErr = err
			return
		}

		store := pcache.Open(cfg.SubstitutionCacheFile)
		if cfg.SubstitutionCacheCapacity > 0 {
			store = pcache.NewS3FIFO(store, cfg.SubstitutionCacheCapacity)
		}

		var loader substitution.Loader
		if cfg.SubstitutionSourceFile != "" {
			loader = substitution.CachedLoader{
				Primary: substitution.FileLoader{Path: cfg.SubstitutionSourceFile},
				Store:   store,
			}
		}

		table := substitution.New()
		table.Load(context.Background(), loader)

		roiCache := pcache.NewS3FIFO(pcache.NewMemory(), roiCacheCapacity)
		driver = pipeline.New(tok, roiCache, table, summarizer.New(), metrics.New(), log)
	})
	return initErr
}

// IsReady reports whether Init has completed successfully.
func IsReady() bool {
	return driver != nil && driver.IsReady()
}

// SetSummarizer swaps the stage-6 backend used by subsequent Compress
// calls. Safe to call between calls; not safe to interleave with an
// in-flight Compress.
func SetSummarizer(s Summarizer) {
	if driver != nil {
		driver.SetSummarizer(s)
	}
}

// Compress runs text through the six-stage compression pipeline and returns
// the structured Result. Init must have been called and succeeded first;
// otherwise Compress returns tokenizer.ErrNotInitialized.
func Compress(text string, opts Options) (*Result, error) {
	if driver == nil {
		return nil, tokenizer.ErrNotInitialized
	}
	return driver.Compress(text, opts)
}
