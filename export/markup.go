package export

import (
	"html"
	"regexp"
	"strings"
)

// The generated chapter text is markdown-shaped. Rendering it to HTML is a
// fixed, ordered substitution chain so that the same input always produces the
// same output. Both the HTML renderer and the document builder go through this
// one function.
var (
	headingTwoPattern   = regexp.MustCompile(`(?m)^## (.+)$`)
	headingThreePattern = regexp.MustCompile(`(?m)^### (.+)$`)
	boldPattern         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	listItemPattern     = regexp.MustCompile(`(?m)^[*-] (.+)$`)
	listBlockPattern    = regexp.MustCompile(`(?:<li>[^\n]*</li>\n?)+`)
	blankLinePattern    = regexp.MustCompile(`\n{2,}`)
)

// ChapterBodyHTML converts one chapter's raw generated content into HTML.
// Substitution order: h2 headings, h3 headings, bold, list items, list
// wrapping, then blank-line-separated blocks become paragraphs.
func ChapterBodyHTML(content string) string {
	s := html.EscapeString(strings.ReplaceAll(content, "\r\n", "\n"))

	s = headingTwoPattern.ReplaceAllString(s, "<h2>$1</h2>")
	s = headingThreePattern.ReplaceAllString(s, "<h3>$1</h3>")
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	s = listItemPattern.ReplaceAllString(s, "<li>$1</li>")
	s = listBlockPattern.ReplaceAllStringFunc(s, func(block string) string {
		if !strings.HasSuffix(block, "\n") {
			block += "\n"
		}
		return "<ul>\n" + block + "</ul>"
	})

	var b strings.Builder
	for _, block := range blankLinePattern.Split(s, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if strings.HasPrefix(block, "<h2>") || strings.HasPrefix(block, "<h3>") || strings.HasPrefix(block, "<ul>") {
			b.WriteString(block)
			b.WriteString("\n")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(block)
		b.WriteString("</p>\n")
	}
	return b.String()
}
