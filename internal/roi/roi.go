// Package roi evaluates whether replacing repeated occurrences of a phrase
// with a reference token is actually cheaper in tokens than leaving the
// phrase inline every time.
package roi

import "promptcompress/internal/refsyntax"

// TokenCounter is the exact, ROI-accurate counting contract Evaluator
// needs. *tokenizer.Counter satisfies it directly; callers that want
// memoized counts pass *tokenizer.MemoizedCounter instead, since both
// implement the same method.
type TokenCounter interface {
	Count(text string) (int, error)
}

// Evaluator decides whether a candidate substitution saves tokens.
type Evaluator struct {
	counter TokenCounter
}

// New returns an Evaluator backed by the given token counter. counter must
// already be initialized; profitability decisions always use the exact
// counter, never the estimator.
func New(counter TokenCounter) *Evaluator {
	return &Evaluator{counter: counter}
}

// Profitable reports whether substituting every occurrence of phrase with a
// reference token saves tokens overall.
//
// Original cost is occurrences × count(phrase). New cost is the one-time
// annotation cost (count of "§id«phrase»") plus (occurrences-1) bare-token
// references (count of "§id"). Substitution wins only if new < original.
func (e *Evaluator) Profitable(phrase string, occurrences int, refID int) (bool, error) {
	p, err := e.counter.Count(phrase)
	if err != nil {
		return false, err
	}
	r, err := e.counter.Count(refsyntax.Token(refID))
	if err != nil {
		return false, err
	}
	a, err := e.counter.Count(refsyntax.Annotation(refID, phrase))
	if err != nil {
		return false, err
	}

	original := occurrences * p
	replaced := a + (occurrences-1)*r
	return replaced < original, nil
}
