package ai

import "strings"

// ExtractJSON recovers the JSON body from a model response. Models asked for
// JSON still occasionally wrap it in markdown fences or lead-in prose, so the
// response is trimmed to the outermost object or array delimiters.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return s[start:]
	}
	return s[start : end+1]
}
