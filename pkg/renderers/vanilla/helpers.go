package vanilla

import "strings"

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "rf-" + trimmed
}

func errorID(name string) string {
	return controlID(name) + "-error"
}

func counterID(name string) string {
	return controlID(name) + "-counter"
}

func remainingID(name string) string {
	return controlID(name) + "-remaining"
}

// sanitizeClassList drops the rf- prefixed tokens reserved for the built-in
// hooks and collapses whitespace.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "rf-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}
