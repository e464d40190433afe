package pipeline

import (
	"strings"

	"promptcompress/internal/refsyntax"
)

// stopWords is the fixed set of function words stage 5 drops in aggressive
// mode. Concentrated here, same as the sigil/delimiter constants in
// internal/refsyntax, so the list is never duplicated across files.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"that": true, "this": true, "these": true, "those": true, "it": true,
	"its": true, "into": true, "onto": true, "about": true, "than": true,
	"then": true, "so": true, "such": true, "there": true, "here": true,
}

// stage5SemanticPruning drops stop words from text when aggressive mode is
// requested; words beginning with the reference sigil, or containing the
// annotation brackets, or that normalize to the empty string, are always
// preserved. Non-aggressive mode is identity (handled by the caller).
func stage5SemanticPruning(text string) string {
	words := strings.Fields(text)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if refsyntax.IsReferenceWord(w) {
			kept = append(kept, w)
			continue
		}
		norm := normalizeWord(w)
		if norm == "" {
			kept = append(kept, w)
			continue
		}
		if stopWords[norm] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// normalizeWord lowercases w and strips every rune that isn't an ASCII
// letter, ASCII digit, or underscore.
func normalizeWord(w string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(w) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
