// Package refsyntax concentrates the reference-token alphabet in one place so
// changing the sigil or delimiter characters never means hunting through
// every stage for a stray literal.
//
// A reference token is "§N" where N is a decimal integer assigned starting
// at 1. Its first occurrence in a text carries an inline annotation
// "§N«phrase»"; every subsequent occurrence is the bare "§N".
//
// All three runes are chosen outside the ASCII/word class and outside the
// ranges any of the cleanrules or stage-4 punctuation regexes target, so a
// reference token can never be mistaken for ordinary prose punctuation.
package refsyntax

import (
	"fmt"
	"strings"
)

// Sigil prefixes every reference token.
const Sigil = '§'

// Open and Close bracket the inline annotation of a reference's first
// occurrence.
const (
	Open  = '«'
	Close = '»'
)

// Sentinel is interleaved between every rune of an inserted reference or
// annotation while the remaining stage-3 mining passes run, so later n-gram
// windows and phrase matches cannot split or mangle the inserted sequence.
// It is stripped before stage 3 returns its result. U+200B (zero
// width space) is outside word class and invisible, so its presence never
// perturbs prose normalization done earlier in the pipeline.
const Sentinel = '​'

// Token returns the bare reference token "§N".
func Token(id int) string {
	return fmt.Sprintf("%c%d", Sigil, id)
}

// Annotation returns the first-occurrence inline form "§N«phrase»".
func Annotation(id int, phrase string) string {
	return fmt.Sprintf("%c%d%c%s%c", Sigil, id, Open, phrase, Close)
}

// Protect interleaves Sentinel between every rune of s, shielding it from
// regex passes that target whitespace or punctuation runs.
func Protect(s string) string {
	var b strings.Builder
	runes := []rune(s)
	b.Grow(len(runes)*2 + 1)
	for i, r := range runes {
		if i > 0 {
			b.WriteRune(Sentinel)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Strip removes every Sentinel rune from s.
func Strip(s string) string {
	if !strings.ContainsRune(s, Sentinel) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == Sentinel {
			return -1
		}
		return r
	}, s)
}

// IsReferenceWord reports whether a whitespace-delimited word is (or begins)
// a reference token or annotation — used by stage 5 to protect references
// from stop-word pruning.
func IsReferenceWord(word string) bool {
	if word == "" {
		return false
	}
	r := []rune(word)
	if r[0] == Sigil {
		return true
	}
	return strings.ContainsRune(word, Open) || strings.ContainsRune(word, Close)
}
