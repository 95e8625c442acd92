package generator

import "strings"

// ExtractJSON returns the span from the first '{' to the last '}' in text.
// Commentary around the object, such as a Markdown code fence, is dropped.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}
