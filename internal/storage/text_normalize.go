package storage

import "strings"

func normalizeTransactionText(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	// Collapse any repeated whitespace (spaces/tabs/newlines) to a single space.
	return strings.Join(strings.Fields(trimmed), " ")
}

func normalizeMethodName(input string) string {
	return normalizeTransactionText(input)
}

// normalizeTags lowercases and dedupes comma separated tags, keeping the
// order they were typed in.
func normalizeTags(input string) string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(input, ",") {
		tag := strings.ToLower(normalizeTransactionText(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return strings.Join(out, ", ")
}
