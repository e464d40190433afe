package compressor

import (
	"strings"
	"testing"

	"promptcompress/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		SubstitutionCacheFile:     "",
		SubstitutionCacheCapacity: 0,
	}
}

func TestInit_MakesReady(t *testing.T) {
	if err := Init(testConfig()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !IsReady() {
		t.Error("expected IsReady() true after Init")
	}
}

func TestCompress_AfterInit(t *testing.T) {
	if err := Init(testConfig()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	r, err := Compress("We did this in order to improve performance.", Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if strings.Contains(r.CompressedText, "in order to") {
		t.Errorf("expected phrase substituted, got %q", r.CompressedText)
	}
}

func TestSetSummarizer_Swaps(t *testing.T) {
	if err := Init(testConfig()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	SetSummarizer(stubSummarizer{})
	r, err := Compress("this is a test of the pruning system", Options{Aggressive: true})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if r.CompressedText != "STUBBED" {
		t.Errorf("expected stub summarizer output, got %q", r.CompressedText)
	}
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(string) string { return "STUBBED" }
