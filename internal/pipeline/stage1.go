package pipeline

import "promptcompress/internal/substitution"

// stage1PhraseSubstitution scans the substitution table in source-length
// descending order and replaces every case-insensitive match with its
// replacement verbatim.
func stage1PhraseSubstitution(text string, table *substitution.Table) string {
	return table.Apply(text)
}
