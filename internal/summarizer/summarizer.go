// Package summarizer defines the pluggable stage 6 backend and ships the
// default rule-based implementation.
package summarizer

import "promptcompress/internal/cleanrules"

// Summarizer reduces text further after semantic pruning. Implementations
// must be pure with respect to the input — no state leakage across calls —
// so that swapping in an LLM-backed summarizer later doesn't change the
// pipeline's testability contract.
type Summarizer interface {
	Summarize(text string) string
}

// RuleBased is the default Summarizer. It applies the fixed regex rules of
// internal/cleanrules in order and carries no state between calls.
type RuleBased struct{}

// New returns the default rule-based summarizer.
func New() RuleBased {
	return RuleBased{}
}

// Summarize applies cleanrules.MetaCommentCleanup.
func (RuleBased) Summarize(text string) string {
	return cleanrules.MetaCommentCleanup(text)
}
