package export

import (
	"bytes"
	"fmt"
	"html"
	"log"

	epub "github.com/go-shiori/go-epub"
	"github.com/launchlab/productforge/models"
)

// EPUBBuilder is the default DocumentBuilder. It shapes the content model into
// an EPUB using go-epub.
type EPUBBuilder struct{}

func NewEPUBBuilder() *EPUBBuilder {
	return &EPUBBuilder{}
}

func (eb *EPUBBuilder) Build(product models.Product, assets []models.Asset) ([]byte, error) {
	title := product.Name
	if product.Type == models.ProductTypeContent && product.RawAnalysis.Outline != nil && product.RawAnalysis.Outline.Title != "" {
		title = product.RawAnalysis.Outline.Title
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	e.SetLang("en")
	if product.Description != "" {
		e.SetDescription(product.Description)
	}

	// Cover embedding is best-effort: a missing or unreachable cover image
	// must not fail the whole document.
	if cover, ok := coverAsset(assets); ok {
		if imgPath, imgErr := e.AddImage(cover.URL, "cover"); imgErr != nil {
			log.Printf("WARN (EPUBBuilder): Failed to embed cover image %s: %v", cover.URL, imgErr)
		} else {
			e.SetCover(imgPath, "")
		}
	}

	switch product.Type {
	case models.ProductTypeContent:
		outline := product.RawAnalysis.Outline
		if outline == nil || len(outline.Chapters) == 0 {
			return nil, fmt.Errorf("product %q has no outline to build a document from", product.Name)
		}
		for _, ch := range outline.Chapters {
			if err := addChapterSection(e, ch); err != nil {
				return nil, err
			}
		}
	case models.ProductTypeSoftware:
		structure := product.RawAnalysis.Structure
		if structure == nil || len(structure.Parts) == 0 {
			return nil, fmt.Errorf("product %q has no structure to build a document from", product.Name)
		}
		for _, part := range structure.Parts {
			if err := addPartSection(e, part); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown product type %q", product.Type)
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write epub: %w", err)
	}

	log.Printf("INFO (EPUBBuilder): Built EPUB for product %q (%d bytes)", product.Name, buf.Len())
	return buf.Bytes(), nil
}

func addChapterSection(e *epub.Epub, ch models.Chapter) error {
	sectionTitle := fmt.Sprintf("Chapter %d: %s", ch.Number, ch.Title)

	var body string
	if ch.IsComplete() {
		body = ChapterBodyHTML(ch.Content)
	} else {
		body = fmt.Sprintf("<p><em>%s</em></p>", html.EscapeString(ch.Description))
	}
	content := fmt.Sprintf("<h1>%s</h1>\n%s", html.EscapeString(sectionTitle), body)

	if _, err := e.AddSection(content, sectionTitle, "", ""); err != nil {
		return fmt.Errorf("failed to add chapter %q to epub: %w", ch.Title, err)
	}
	return nil
}

func addPartSection(e *epub.Epub, part models.Part) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(part.Title))
	if part.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(part.Description))
	}
	for _, mod := range part.Modules {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(mod.Title))
		if mod.Description != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(mod.Description))
		}
	}

	if _, err := e.AddSection(b.String(), part.Title, "", ""); err != nil {
		return fmt.Errorf("failed to add part %q to epub: %w", part.Title, err)
	}
	return nil
}
