package importer

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// ImportedContent is the result of importing outside HTML into a chapter.
type ImportedContent struct {
	Text           string // plain text suitable as chapter content
	ExtractedTitle string // title extracted from the document, may be empty
	WordCount      int
}

// Importer turns pasted or fetched HTML into chapter content: sanitize, run
// readable-content extraction, and fall back to the cleaned text when
// extraction yields nothing.
type Importer struct {
	htmlPolicy      *bluemonday.Policy
	stripTagsPolicy *bluemonday.Policy
}

func NewImporter() *Importer {
	return &Importer{
		htmlPolicy:      bluemonday.UGCPolicy(),
		stripTagsPolicy: bluemonday.StripTagsPolicy(),
	}
}

// FromHTML extracts chapter-ready text from raw HTML. baseURL resolves
// relative links during extraction; a placeholder is fine for pasted content.
func (im *Importer) FromHTML(rawHTML string, baseURL *url.URL) (*ImportedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, fmt.Errorf("imported HTML content is empty")
	}

	cleaned := im.htmlPolicy.Sanitize(rawHTML)

	result := &ImportedContent{}
	article, err := readability.FromReader(strings.NewReader(cleaned), baseURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		result.Text = strings.TrimSpace(article.TextContent)
		result.ExtractedTitle = article.Title
	} else {
		if err != nil {
			log.Printf("WARN (Importer): Readability extraction failed, falling back to cleaned text: %v", err)
		}
		result.Text = strings.TrimSpace(im.stripTagsPolicy.Sanitize(cleaned))
	}

	if result.Text == "" {
		return nil, fmt.Errorf("imported content is empty after cleaning and extraction")
	}

	result.WordCount = len(strings.Fields(result.Text))
	return result, nil
}
