// Package ngram mines repeated word sequences from text, the raw material
// stage 3 feeds to the ROI evaluator before committing a substitution.
package ngram

import "strings"

// thresholds gives the minimum occurrence count required for an n-gram of
// length n to be reported. Shorter references cost fewer tokens than longer
// ones, so longer phrases need fewer repeats to be worth mining.
var thresholds = map[int]int{
	2: 5,
	3: 4,
	4: 3,
	5: 3,
}

const defaultThreshold = 2

// MinCount returns the occurrence threshold configured for n-grams of
// length n.
func MinCount(n int) int {
	if t, ok := thresholds[n]; ok {
		return t
	}
	return defaultThreshold
}

// Find splits text on whitespace, lowercases each word, and counts every
// contiguous n-word window. Only windows meeting minCount are returned.
func Find(text string, n int, minCount int) map[string]int {
	words := strings.Fields(text)
	if len(words) < n || n <= 0 {
		return map[string]int{}
	}
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	counts := make(map[string]int)
	for i := 0; i+n <= len(words); i++ {
		phrase := strings.Join(words[i:i+n], " ")
		counts[phrase]++
	}

	out := make(map[string]int, len(counts))
	for phrase, c := range counts {
		if c >= minCount {
			out[phrase] = c
		}
	}
	return out
}
