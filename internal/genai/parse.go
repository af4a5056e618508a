package genai

import "strings"

// ExtractJSON strips a fenced code block wrapper from provider output, if
// present, and returns the inner payload. Providers asked for JSON still
// wrap it in ```json fences often enough that callers cannot rely on a bare
// payload.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string ("json", "JSON", ...) on the fence line
		s = s[nl+1:]
	} else {
		return ""
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
