package pipeline

import (
	"strings"

	"promptcompress/internal/segment"
)

// stage2StructuralNormalization applies the JSON/prose segmenter and
// reassembles the processed segments in order.
func stage2StructuralNormalization(text string) string {
	segments := segment.Split(text)
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Content)
	}
	return b.String()
}
