package pipeline

import "promptcompress/internal/cleanrules"

// stage4PunctuationCleanup applies the shared punctuation-cleanup rules.
func stage4PunctuationCleanup(text string) string {
	return cleanrules.PunctuationCleanup(text)
}
