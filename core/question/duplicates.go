package question

// SanitizedText returns the question text reduced to the comparison form
// used by Duplicates.
func SanitizedText(q Question) string { return sanitizeLabel(q.Text) }

// Duplicates groups questions sharing the same sanitized text across
// sources. The loader deliberately does NOT de-duplicate at load time; this
// helper lets operational tooling report overlaps instead.
func Duplicates(qs []Question) map[string][]Question {
	byText := make(map[string][]Question)
	for _, q := range qs {
		key := sanitizeLabel(q.Text)
		byText[key] = append(byText[key], q)
	}

	dups := make(map[string][]Question)
	for key, group := range byText {
		if len(group) > 1 {
			dups[key] = group
		}
	}
	return dups
}
