package substitution

// builtinFallback returns the built-in verbose→concise phrase set installed
// whenever no Loader is configured, or the configured Loader fails. The
// first block is the core set of verbose constructions; the second block
// supplements it with further common phrasings.
func builtinFallback() map[string]string {
	return map[string]string{
		"in order to":                  "to",
		"due to the fact that":         "because",
		"at this point in time":        "now",
		"for the purpose of":           "for",
		"with regard to":               "regarding",
		"in the event that":            "if",
		"it is important to note that": "note:",
		"as previously mentioned":      "previously",
		"in spite of the fact that":    "although",

		"prior to":                "before",
		"subsequent to":           "after",
		"take into consideration": "consider",
		"make a decision":         "decide",
		"come to a conclusion":    "conclude",
		"give consideration to":   "consider",
		"is in agreement with":    "agrees with",
		"has the ability to":     "can",
		"as a matter of fact":    "in fact",
	}
}
