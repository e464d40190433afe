package pipeline

import "promptcompress/internal/summarizer"

// stage6Summarization delegates to the installed summarizer. Non-aggressive
// mode is identity (handled by the caller).
func stage6Summarization(text string, s summarizer.Summarizer) string {
	return s.Summarize(text)
}
