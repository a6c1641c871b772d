// Package cv turns a stored CV into plain text suitable as prompt context.
package cv

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/job-matcher/internal/types"
)

// DefaultExcerptLength bounds the CV text placed into a prompt.
const DefaultExcerptLength = 4000

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// blockSelectors are elements that end a line in the rendered document
const blockSelectors = "p, div, section, article, header, footer, h1, h2, h3, h4, h5, h6, tr, ul, ol, table"

// PlainText returns the CV's text, preferring the text parsed at upload time
// and falling back to extracting it from the HTML content.
func PlainText(c *types.CV) (string, error) {
	if c == nil {
		return "", nil
	}
	if text := CleanText(c.ParsedText); text != "" {
		return text, nil
	}
	if strings.TrimSpace(c.HTMLContent) == "" {
		return "", nil
	}
	return ExtractText(c.HTMLContent)
}

// ExtractText converts CV HTML into line-structured plain text. List items
// become "- " bullets; scripts and styles are dropped.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse CV HTML: %w", err)
	}

	doc.Find("script, style, noscript, head, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
		s.AppendHtml("\n")
	})
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return CleanText(root.Text()), nil
}

// CleanText normalizes line endings, collapses inline whitespace, and keeps
// at most one blank line between blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}

	result := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// Excerpt cuts text to limit runes, marking the cut with an ellipsis.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
