// Package htmlconv turns scraped result pages into plain text suitable for a
// model prompt: it strips non-content markup and converts the remainder to
// markdown.
package htmlconv

import (
	"bytes"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/askitmo/askitmo/internal/logger"
)

var multipleNewlines = regexp.MustCompile(`\n{3,}`)

// Elements that never carry article content.
var unwantedTags = map[string]bool{
	"script": true,
	"style":  true,
	"meta":   true,
	"head":   true,
	"footer": true,
	"nav":    true,
	"aside":  true,
}

// ExtractPage parses raw HTML and returns the document title and the cleaned
// page text. Failures degrade: a page that cannot be parsed yields an empty
// title and the input trimmed.
func ExtractPage(input string) (title, text string) {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		logger.Warn("Failed to parse HTML: %v", err)
		return "", strings.TrimSpace(input)
	}

	title = findTitle(doc)
	removeUnwantedNodes(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		logger.Warn("Failed to render cleaned HTML: %v", err)
		return title, strings.TrimSpace(input)
	}

	markdown, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		logger.Warn("Failed to convert HTML to markdown: %v", err)
		return title, strings.TrimSpace(input)
	}

	return title, cleanMarkdown(markdown)
}

// findTitle returns the text of the first <title> element.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(sb.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// removeUnwantedNodes recursively removes non-content elements from the HTML
// tree.
func removeUnwantedNodes(n *html.Node) {
	child := n.FirstChild
	for child != nil {
		next := child.NextSibling
		removeUnwantedNodes(child)
		child = next
	}

	if shouldRemoveNode(n) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func shouldRemoveNode(n *html.Node) bool {
	if n.Type == html.CommentNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	return unwantedTags[strings.ToLower(n.Data)]
}

// cleanMarkdown performs post-processing cleanup on converted markdown
func cleanMarkdown(markdown string) string {
	markdown = multipleNewlines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}
