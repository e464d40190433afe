// Package pipeline orchestrates the six-stage compression pipeline and
// produces the structured Result record callers consume.
package pipeline

import (
	"math"
	"time"

	"promptcompress/internal/logger"
	"promptcompress/internal/metrics"
	"promptcompress/internal/pcache"
	"promptcompress/internal/roi"
	"promptcompress/internal/substitution"
	"promptcompress/internal/summarizer"
	"promptcompress/internal/tokenizer"
)

// Options controls optional pipeline behavior.
type Options struct {
	// Aggressive enables stage 5 (semantic pruning) and stage 6
	// (summarization). Off by default.
	Aggressive bool
}

// Metadata carries the diagnostic counters reported alongside the result.
type Metadata struct {
	OriginalLength   int `json:"original_length"`
	CompressedLength int `json:"compressed_length"`
	NgramsFound      int `json:"ngrams_found"`
	NgramsReplaced   int `json:"ngrams_replaced"`
	NgramsSkippedROI int `json:"ngrams_skipped_roi"`
}

// Result is the structured output of one Compress call.
type Result struct {
	CompressedText           string         `json:"compressed_text"`
	CompressedWithDictionary string         `json:"compressed_with_dictionary"`
	Dictionary               map[string]string `json:"dictionary"`
	OriginalTokens           int            `json:"original_tokens"`
	CompressedTokens         int            `json:"compressed_tokens"`
	CompressionRatio         float64        `json:"compression_ratio"`
	CompressionPercentage    float64        `json:"compression_percentage"`
	SavedTokens              int            `json:"saved_tokens"`
	StageSavings             map[int]int    `json:"stage_savings"`
	StageTexts               map[int]string `json:"stage_texts"`
	Metadata                 Metadata       `json:"metadata"`
}

// finalize fills in the derived fields once the working text has passed
// through all six stages.
func (r *Result) finalize(text string, compressedTokens int) {
	r.CompressedText = text
	r.CompressedWithDictionary = text
	r.CompressedTokens = compressedTokens

	ratio := 1.0
	if r.OriginalTokens > 0 {
		ratio = float64(compressedTokens) / float64(r.OriginalTokens)
	}
	r.CompressionRatio = round(ratio, 3)
	r.CompressionPercentage = round((1-ratio)*100, 1)
	r.SavedTokens = r.OriginalTokens - compressedTokens
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Driver holds the initialized, read-only-after-init dependencies every
// Compress call shares: the token counter, the substitution table, the ROI
// evaluator built on top of the same counter, the installed summarizer, and
// the metrics/logger sinks the stages report through.
type Driver struct {
	tokenizer  *tokenizer.Counter
	table      *substitution.Table
	roiEval    *roi.Evaluator
	summarizer summarizer.Summarizer
	metrics    *metrics.Metrics
	log        *logger.Logger
}

// New returns a Driver. tok must already be initialized; New does not call
// tok.Init itself so callers control initialization ordering explicitly —
// init happens once, before any Compress call, and Compress itself stays
// stateless per call.
//
// roiCache, if non-nil, fronts the ROI evaluator's token counting with
// internal/tokenizer.MemoizedCounter: stage 3 re-scores overlapping
// substrings at every n-gram length, and the same high-traffic phrases
// recur across Compress calls in a long-running service, so memoizing
// counts by exact text avoids re-running the BPE encoder on text it has
// already seen. A nil roiCache disables memoization — the evaluator counts
// directly against tok every time, which is what most pipeline tests use.
func New(tok *tokenizer.Counter, roiCache pcache.Cache, table *substitution.Table, summ summarizer.Summarizer, m *metrics.Metrics, log *logger.Logger) *Driver {
	var counter roi.TokenCounter = tok
	if roiCache != nil {
		counter = tokenizer.Memoize(tok, roiCache)
	}
	return &Driver{
		tokenizer:  tok,
		table:      table,
		roiEval:    roi.New(counter),
		summarizer: summ,
		metrics:    m,
		log:        log,
	}
}

// SetSummarizer swaps the installed stage-6 backend. Safe to call between
// Compress calls; not safe to interleave with an in-flight call.
func (d *Driver) SetSummarizer(s summarizer.Summarizer) {
	d.summarizer = s
}

// IsReady reports whether the driver's token counter has completed
// initialization.
func (d *Driver) IsReady() bool {
	return d.tokenizer.Ready()
}

// Compress runs text through all six pipeline stages in order and returns
// the populated Result. The only error that propagates to the caller is
// tokenizer.ErrNotInitialized; every other internal failure degrades the
// affected stage to identity and continues.
func (d *Driver) Compress(text string, opts Options) (*Result, error) {
	if !d.tokenizer.Ready() {
		return nil, tokenizer.ErrNotInitialized
	}

	result := &Result{
		Dictionary:   map[string]string{},
		StageSavings: map[int]int{},
		StageTexts:   map[int]string{},
	}

	originalTokens, err := d.tokenizer.Count(text)
	if err != nil {
		return nil, err
	}
	result.OriginalTokens = originalTokens

	if text == "" {
		result.finalize("", 0)
		d.metrics.RecordCompression(true)
		return result, nil
	}

	working := text
	beforeTokens := originalTokens

	runStage := func(stageNum int, label string, fn func(string) string) {
		start := time.Now()
		out := fn(working)
		d.metrics.RecordStageLatency(stageNum, time.Since(start))

		afterTokens, cerr := d.tokenizer.Count(out)
		if cerr != nil {
			afterTokens = beforeTokens
		}
		result.StageSavings[stageNum] = beforeTokens - afterTokens
		result.StageTexts[stageNum] = out
		d.log.Debugf(label, "tokens_before=%d tokens_after=%d delta=%d", beforeTokens, afterTokens, beforeTokens-afterTokens)

		working = out
		beforeTokens = afterTokens
	}

	runStage(1, "stage1_substitution", func(s string) string {
		return stage1PhraseSubstitution(s, d.table)
	})

	runStage(2, "stage2_segment", stage2StructuralNormalization)

	var found, replaced, skippedROI int
	runStage(3, "stage3_ngram", func(s string) string {
		res := stage3NgramCompression(s, d.roiEval)
		found, replaced, skippedROI = res.found, res.replaced, res.skippedROI
		for k, v := range res.dictionary {
			result.Dictionary[k] = v
		}
		return res.text
	})
	d.metrics.RecordNgrams(found, replaced, skippedROI)
	d.log.Debugf("stage3_ngram", "found=%d replaced=%d skipped_roi=%d", found, replaced, skippedROI)

	runStage(4, "stage4_punctuation", stage4PunctuationCleanup)

	runStage(5, "stage5_pruning", func(s string) string {
		if !opts.Aggressive {
			return s
		}
		return stage5SemanticPruning(s)
	})

	runStage(6, "stage6_summarize", func(s string) string {
		if !opts.Aggressive {
			return s
		}
		return stage6Summarization(s, d.summarizer)
	})

	result.finalize(working, beforeTokens)
	result.Metadata = Metadata{
		OriginalLength:   len(text),
		CompressedLength: len(working),
		NgramsFound:      found,
		NgramsReplaced:   replaced,
		NgramsSkippedROI: skippedROI,
	}

	d.metrics.TokensSaved.Add(int64(result.SavedTokens))
	d.metrics.RecordCompression(true)
	return result, nil
}
