package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"promptcompress/internal/ngram"
	"promptcompress/internal/refsyntax"
	"promptcompress/internal/roi"
)

// ngramCandidate pairs a mined phrase with its occurrence count.
type ngramCandidate struct {
	phrase string
	count  int
}

// stage3Result carries stage 3's working text alongside the diagnostic
// counters the driver folds into the result record's metadata.
type stage3Result struct {
	text       string
	dictionary map[string]string
	found      int
	replaced   int
	skippedROI int
}

// stage3NgramCompression iterates n from 10 down to 2, mining candidates at
// each length, and admits each candidate only if the ROI evaluator confirms
// the substitution is cheaper in tokens than leaving the phrase inline.
// Reference ids are assigned from 1 and only consumed when a substitution
// actually lands text.
func stage3NgramCompression(text string, evaluator *roi.Evaluator) stage3Result {
	working := text
	dict := make(map[string]string)
	nextID := 1
	var found, replaced, skippedROI int

	for n := 10; n >= 2; n-- {
		minCount := ngram.MinCount(n)
		candidates := ngram.Find(working, n, minCount)
		if len(candidates) == 0 {
			continue
		}

		ordered := make([]ngramCandidate, 0, len(candidates))
		for phrase, count := range candidates {
			ordered = append(ordered, ngramCandidate{phrase: phrase, count: count})
		}
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].count != ordered[j].count {
				return ordered[i].count > ordered[j].count
			}
			return len(ordered[i].phrase) > len(ordered[j].phrase)
		})

		for _, c := range ordered {
			found++
			refID := nextID

			profitable, err := evaluator.Profitable(c.phrase, c.count, refID)
			if err != nil || !profitable {
				skippedROI++
				continue
			}

			out, numReplaced := substitutePhrase(working, c.phrase, refID)
			if numReplaced == 0 {
				continue
			}

			working = out
			dict[refsyntax.Token(refID)] = c.phrase
			replaced++
			nextID++
		}
	}

	return stage3Result{
		text:       refsyntax.Strip(working),
		dictionary: dict,
		found:      found,
		replaced:   replaced,
		skippedROI: skippedROI,
	}
}

// substitutePhrase replaces every case-insensitive, word-boundary occurrence
// of phrase in text: the first occurrence becomes the annotated form
// "<sigil><id><open><phrase><close>", every subsequent occurrence becomes
// the bare "<sigil><id>". Both forms are sentinel-protected so later mining
// passes within this stage don't fragment them. Returns the new text and
// the number of occurrences replaced.
func substitutePhrase(text, phrase string, refID int) (string, int) {
	re := phraseMatcher(phrase)
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	last := 0
	count := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		count++
		if count == 1 {
			b.WriteString(refsyntax.Protect(refsyntax.Annotation(refID, phrase)))
		} else {
			b.WriteString(refsyntax.Protect(refsyntax.Token(refID)))
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), count
}

// phraseMatcher compiles a case-insensitive, word-boundary regex matching
// phrase's words separated by one or more whitespace characters.
func phraseMatcher(phrase string) *regexp.Regexp {
	words := strings.Fields(phrase)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	pattern := `(?i)\b` + strings.Join(quoted, `\s+`) + `\b`
	return regexp.MustCompile(pattern)
}
