package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Placeholder patterns models sometimes echo back from the prompt's format
// example instead of filling in real values.
var (
	placeholderInt    = regexp.MustCompile(`<int (?:or|или) null>`)
	placeholderString = regexp.MustCompile(`"<(?:string|строка)>"`)
	placeholderURL    = regexp.MustCompile(`"<url\d+>"`)
)

// ExtractObject locates the first {...} span in model-generated text and
// parses it as a JSON object, tolerating surrounding prose. When strict
// parsing fails it retries once after substituting known placeholder patterns
// with JSON null / empty string. Returns false when no parseable object
// exists; the caller is expected to fall back to the raw text.
func ExtractObject(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	block := text[start : end+1]

	var parsed map[string]any
	if err := json.Unmarshal([]byte(block), &parsed); err == nil {
		return parsed, true
	}

	fixed := placeholderInt.ReplaceAllString(block, "null")
	fixed = placeholderString.ReplaceAllString(fixed, `""`)
	fixed = placeholderURL.ReplaceAllString(fixed, `""`)
	if err := json.Unmarshal([]byte(fixed), &parsed); err == nil {
		return parsed, true
	}

	return nil, false
}
