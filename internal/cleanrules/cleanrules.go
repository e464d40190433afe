// Package cleanrules is the shared library of fixed regex transformations
// used by the pipeline's punctuation cleanup stage and its default
// summarizer: every pattern is compiled once at package init and applied in
// a fixed order.
package cleanrules

import "regexp"

// --- stage 4: punctuation cleanup ------------------------------------------

var (
	spaceBeforePunct  = regexp.MustCompile(`\s+([.,;:!?])`)
	spaceInsideParens = regexp.MustCompile(`([(\[{])\s+|\s+([)\]}])`)
	spaceAfterQuote   = regexp.MustCompile(`(["'])\s+`)
	spaceBeforeQuote  = regexp.MustCompile(`\s+(["'])`)
)

// PunctuationCleanup applies stage 4 of the pipeline: remove whitespace
// immediately preceding .,;:!?, remove whitespace immediately inside each of
// () [] {}, remove whitespace immediately before and after every " and '
// character, then trim leading/trailing whitespace from the whole text.
// Quote characters are not paired into opening and closing quotes, so the
// whitespace on the outer side of a quoted span is removed as well as the
// whitespace on its inner side. It does not collapse interior multi-spaces —
// stage 2 already normalized prose.
func PunctuationCleanup(s string) string {
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = spaceInsideParens.ReplaceAllStringFunc(s, func(m string) string {
		sub := spaceInsideParens.FindStringSubmatch(m)
		if sub[1] != "" {
			return sub[1]
		}
		return sub[2]
	})
	s = spaceAfterQuote.ReplaceAllString(s, "$1")
	s = spaceBeforeQuote.ReplaceAllString(s, "$1")
	return trimEdges(s)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func trimEdges(s string) string {
	i, j := 0, len(s)
	for i < j && isSpace(rune(s[i])) {
		i++
	}
	for j > i && isSpace(rune(s[j-1])) {
		j--
	}
	return s[i:j]
}

// --- stage 6 / default summarizer: meta-comment cleanup --------------------

var (
	ruleDividerRuns  = regexp.MustCompile(`[=\-*#]{4,}`)
	ruleSectionBlock = regexp.MustCompile(`SECTION \d+:(?: (?:[A-Z]{2,}|\d+))*`)
	ruleCapsMarker   = regexp.MustCompile(`\b(?:[A-Z]+-){2,}[A-Z]+\b`)
	ruleParenMeta    = regexp.MustCompile(`(?is)\((?:Imagine|Adding|Assuming|Suppose|Note:).{4,}?\)`)
	ruleBracketMeta  = regexp.MustCompile(`(?is)\[(?:REPEATING|SIMULATING|CONTINUED|NOTE).{4,}?\]`)
	ruleEllipsisMeta = regexp.MustCompile(`(?s)\.\.\.\s*\([^)]*\)\s*\.\.\.`)
	ruleSpacesRun    = regexp.MustCompile(` {2,}`)
	ruleNewlinesRun  = regexp.MustCompile(`(?:\n[ \t]*){3,}`)
)

// MetaCommentCleanup applies the seven fixed rules of the default
// summarizer, in order:
//  1. remove runs of 4+ of = - * #
//  2. remove "SECTION <digits>:" header blocks followed by all-caps/numeric tokens
//  3. remove all-caps hyphenated markers of 3+ segments whose match is >= 15 chars
//  4. remove parenthesized meta-comments (Imagine|Adding|Assuming|Suppose|Note:)
//  5. remove bracketed meta-comments (REPEATING|SIMULATING|CONTINUED|NOTE)
//  6. remove "... (any text) ..." ellipsis-meta constructs
//  7. collapse 2+ spaces to one, 3+ newlines to exactly two, then trim
func MetaCommentCleanup(s string) string {
	s = ruleDividerRuns.ReplaceAllString(s, "")
	s = ruleSectionBlock.ReplaceAllString(s, "")
	s = ruleCapsMarker.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) >= 15 {
			return ""
		}
		return m
	})
	s = ruleParenMeta.ReplaceAllString(s, "")
	s = ruleBracketMeta.ReplaceAllString(s, "")
	s = ruleEllipsisMeta.ReplaceAllString(s, "")
	s = ruleSpacesRun.ReplaceAllString(s, " ")
	s = ruleNewlinesRun.ReplaceAllString(s, "\n\n")
	return trimEdges(s)
}
