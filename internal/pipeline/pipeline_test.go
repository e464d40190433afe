package pipeline

import (
	"context"
	"strings"
	"testing"

	"promptcompress/internal/logger"
	"promptcompress/internal/metrics"
	"promptcompress/internal/pcache"
	"promptcompress/internal/substitution"
	"promptcompress/internal/summarizer"
	"promptcompress/internal/tokenizer"
)

func newDriver(t *testing.T) *Driver {
	t.Helper()
	tok := tokenizer.New()
	if err := tok.Init(); err != nil {
		t.Fatalf("init tokenizer: %v", err)
	}
	table := substitution.New()
	table.Load(context.Background(), nil)
	m := metrics.New()
	log := logger.New("PIPELINE", "error")
	return New(tok, nil, table, summarizer.New(), m, log)
}

func TestCompress_EmptyInputIsIdentity(t *testing.T) {
	d := newDriver(t)
	r, err := d.Compress("", Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if r.CompressedText != "" {
		t.Errorf("CompressedText: got %q, want empty", r.CompressedText)
	}
	if r.OriginalTokens != 0 || r.CompressedTokens != 0 {
		t.Errorf("expected zero token counts, got %+v", r)
	}
}

func TestCompress_NotInitializedPropagates(t *testing.T) {
	tok := tokenizer.New() // never Init'd
	table := substitution.New()
	table.Load(context.Background(), nil)
	d := New(tok, nil, table, summarizer.New(), metrics.New(), logger.New("PIPELINE", "error"))

	_, err := d.Compress("hello", Options{})
	if err != tokenizer.ErrNotInitialized {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestCompress_PhraseSubstitutionReducesTokens(t *testing.T) {
	d := newDriver(t)
	r, err := d.Compress("We did this in order to improve performance.", Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if strings.Contains(r.CompressedText, "in order to") {
		t.Errorf("expected phrase substituted, got %q", r.CompressedText)
	}
	if !strings.Contains(r.CompressedText, " to improve") {
		t.Errorf("expected replacement phrase present, got %q", r.CompressedText)
	}
	if r.StageSavings[1] <= 0 {
		t.Errorf("expected stage1 to save tokens, got %d", r.StageSavings[1])
	}
}

func TestCompress_JSONSegmentPruned(t *testing.T) {
	d := newDriver(t)
	r, err := d.Compress(`prefix {"data": "ok", "meta": {}, "tags": []} suffix`, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !strings.Contains(r.CompressedText, `{"data":"ok"}`) {
		t.Errorf("expected pruned JSON segment present, got %q", r.CompressedText)
	}
}

func TestCompress_RepeatedPhraseGetsDictionaryEntry(t *testing.T) {
	d := newDriver(t)
	text := strings.Repeat("the advanced machine learning pipeline is great. ", 6)
	r, err := d.Compress(text, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(r.Dictionary) == 0 {
		t.Fatal("expected at least one dictionary entry for a heavily repeated phrase")
	}
	for ref, phrase := range r.Dictionary {
		if !strings.Contains(r.CompressedText, ref) {
			t.Errorf("dictionary key %q does not appear in compressed text", ref)
		}
		if phrase == "" {
			t.Errorf("dictionary value for %q is empty", ref)
		}
	}
}

func TestCompress_BelowThresholdNgramNotInDictionary(t *testing.T) {
	d := newDriver(t)
	text := "cat dog runs. cat dog jumps. cat dog sleeps. cat dog eats."
	r, err := d.Compress(text, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	for _, phrase := range r.Dictionary {
		if phrase == "cat dog" {
			t.Error("expected 'cat dog' (4 occurrences, below threshold 5) to not be compressed")
		}
	}
}

func TestCompress_AggressiveModePrunesStopWords(t *testing.T) {
	d := newDriver(t)
	r, err := d.Compress("this is a test of the pruning system", Options{Aggressive: true})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if strings.Contains(strings.ToLower(r.CompressedText), " the ") {
		t.Errorf("expected stop words pruned in aggressive mode, got %q", r.CompressedText)
	}
}

func TestCompress_NonAggressiveSkipsStages5And6(t *testing.T) {
	d := newDriver(t)
	r, err := d.Compress("this is a test of the pruning system", Options{Aggressive: false})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if r.StageSavings[5] != 0 || r.StageSavings[6] != 0 {
		t.Errorf("expected zero savings on skipped stages, got stage5=%d stage6=%d", r.StageSavings[5], r.StageSavings[6])
	}
}

func TestCompress_Deterministic(t *testing.T) {
	d := newDriver(t)
	text := "We did this in order to improve performance, due to the fact that it matters."
	r1, err := d.Compress(text, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	r2, err := d.Compress(text, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if r1.CompressedText != r2.CompressedText {
		t.Errorf("expected deterministic output:\n%q\n%q", r1.CompressedText, r2.CompressedText)
	}
}

func TestCompress_InvariantSavedTokens(t *testing.T) {
	d := newDriver(t)
	r, err := d.Compress("We did this in order to improve performance.", Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if r.SavedTokens != r.OriginalTokens-r.CompressedTokens {
		t.Errorf("SavedTokens invariant violated: %d != %d - %d", r.SavedTokens, r.OriginalTokens, r.CompressedTokens)
	}
	if r.CompressionRatio < 0 || r.CompressionRatio > 1 {
		t.Errorf("CompressionRatio out of range: %f", r.CompressionRatio)
	}
}

func TestCompress_CompressedWithDictionaryAliasesCompressedText(t *testing.T) {
	d := newDriver(t)
	r, err := d.Compress("hello world", Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if r.CompressedWithDictionary != r.CompressedText {
		t.Error("expected compressed_with_dictionary to alias compressed_text")
	}
}

func TestCompress_WithROICacheMatchesUncachedResult(t *testing.T) {
	tok := tokenizer.New()
	if err := tok.Init(); err != nil {
		t.Fatalf("init tokenizer: %v", err)
	}
	table := substitution.New()
	table.Load(context.Background(), nil)

	text := strings.Repeat("the advanced machine learning pipeline is great. ", 6)

	uncached := New(tok, nil, table, summarizer.New(), metrics.New(), logger.New("PIPELINE", "error"))
	want, err := uncached.Compress(text, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	cached := New(tok, pcache.NewMemory(), table, summarizer.New(), metrics.New(), logger.New("PIPELINE", "error"))
	got, err := cached.Compress(text, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if got.CompressedText != want.CompressedText {
		t.Errorf("memoized ROI counter changed stage 3's outcome:\n%q\n%q", got.CompressedText, want.CompressedText)
	}
}
