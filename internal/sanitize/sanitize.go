// Package sanitize provides rule-based cleanup for model-generated text and
// URL validation for model-reported sources. Model output is untrusted free
// text; everything here degrades to a safe value instead of failing.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	blockComments = regexp.MustCompile(`(?s)/\*.*?\*/`)
	blankRuns     = regexp.MustCompile(`\n\s*\n+`)
	urlPattern    = regexp.MustCompile(`(?i)^(?:http|ftp)s?://\S+$`)
	embeddedURLs  = regexp.MustCompile(`https?://\S+`)
)

// suspiciousKeywords are tokens whose presence in a line marks it as echoed
// code or error output rather than natural language. Matching is
// case-insensitive and drops the whole line.
var suspiciousKeywords = []string{"import", "requests", "sys", "error", "usage"}

// Text cleans model-generated text: strips block comments, drops lines that
// look like code comments or TODO markers, drops lines containing suspicious
// keywords, and collapses runs of blank lines. The result of applying Text
// twice is the same as applying it once.
func Text(text string) string {
	text = strings.TrimSpace(text)

	text = blockComments.ReplaceAllString(text, "")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "//") || strings.Contains(line, "TODO") {
			continue
		}
		if containsSuspicious(line) {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	text = blankRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func containsSuspicious(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsURL reports whether s looks like an http, https, ftp or ftps URL.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// ExtractURLs returns every http(s)-prefixed substring of s that validates as
// a URL, in order of occurrence.
func ExtractURLs(s string) []string {
	var urls []string
	for _, candidate := range embeddedURLs.FindAllString(s, -1) {
		candidate = strings.TrimSpace(candidate)
		if IsURL(candidate) {
			urls = append(urls, candidate)
		}
	}
	return urls
}
