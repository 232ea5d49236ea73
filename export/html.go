package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/launchlab/productforge/models"
)

// HTMLRenderer builds a single self-contained HTML document: cover block,
// table of contents, one section per chapter (or the structure's parts for
// software-shaped products), an optional bonus-content block, and a footer.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

const htmlStyles = `body{font-family:Georgia,serif;max-width:46em;margin:0 auto;padding:2em;color:#222;line-height:1.6}
.cover{text-align:center;padding:4em 0;border-bottom:1px solid #ddd}
.cover img{max-width:60%}
.cover .tagline{font-style:italic;color:#555}
.toc ol{line-height:2}
section.chapter{margin-top:3em}
.placeholder{color:#888;font-style:italic;border-left:3px solid #ddd;padding-left:1em}
aside.takeaways{background:#f5f7f9;border-left:4px solid #4a7;padding:0.5em 1.5em;margin:1.5em 0}
section.bonus{margin-top:3em;border-top:1px solid #ddd;padding-top:1em}
footer{margin-top:4em;border-top:1px solid #ddd;color:#888;font-size:0.85em;text-align:center}`

func (r *HTMLRenderer) Render(product models.Product, assets []models.Asset) (Artifact, error) {
	body, err := r.renderBody(product, assets)
	if err != nil {
		return Artifact{}, err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(product.Name))
	b.WriteString("<style>\n" + htmlStyles + "\n</style>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")

	format := models.ExportFormatHTML
	return Artifact{
		Bytes:    []byte(b.String()),
		MIMEType: format.MIMEType(),
		Filename: Filename(product.Name, format),
		Format:   format,
	}, nil
}

func (r *HTMLRenderer) renderBody(product models.Product, assets []models.Asset) (string, error) {
	var b strings.Builder

	writeCoverBlock(&b, product, assets)

	switch product.Type {
	case models.ProductTypeContent:
		outline := product.RawAnalysis.Outline
		if outline == nil || len(outline.Chapters) == 0 {
			return "", fmt.Errorf("product %q has no outline to export", product.Name)
		}
		writeTableOfContents(&b, outline)
		for _, ch := range outline.Chapters {
			writeChapterSection(&b, ch)
		}
		writeBonusBlock(&b, outline.BonusContent)
	case models.ProductTypeSoftware:
		structure := product.RawAnalysis.Structure
		if structure == nil || len(structure.Parts) == 0 {
			return "", fmt.Errorf("product %q has no structure to export", product.Name)
		}
		writeStructureSections(&b, structure)
	default:
		return "", fmt.Errorf("unknown product type %q", product.Type)
	}

	fmt.Fprintf(&b, "<footer><p>%s</p></footer>\n", html.EscapeString(product.Name))
	return b.String(), nil
}

func writeCoverBlock(b *strings.Builder, product models.Product, assets []models.Asset) {
	b.WriteString("<div class=\"cover\">\n")
	if cover, ok := coverAsset(assets); ok {
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"Cover\">\n", html.EscapeString(cover.URL))
	}
	fmt.Fprintf(b, "<h1>%s</h1>\n", html.EscapeString(product.Name))
	if product.Tagline != "" {
		fmt.Fprintf(b, "<p class=\"tagline\">%s</p>\n", html.EscapeString(product.Tagline))
	}
	b.WriteString("</div>\n")
}

func writeTableOfContents(b *strings.Builder, outline *models.ContentOutline) {
	b.WriteString("<nav class=\"toc\">\n<h2>Table of Contents</h2>\n<ol>\n")
	for _, ch := range outline.Chapters {
		fmt.Fprintf(b, "<li>Chapter %d: %s</li>\n", ch.Number, html.EscapeString(ch.Title))
	}
	b.WriteString("</ol>\n</nav>\n")
}

func writeChapterSection(b *strings.Builder, ch models.Chapter) {
	fmt.Fprintf(b, "<section class=\"chapter\" id=\"chapter-%d\">\n", ch.Number)
	fmt.Fprintf(b, "<h2>Chapter %d: %s</h2>\n", ch.Number, html.EscapeString(ch.Title))

	if ch.IsComplete() {
		b.WriteString(ChapterBodyHTML(ch.Content))
	} else {
		// No generated content yet: show the description, visually marked as
		// placeholder text.
		fmt.Fprintf(b, "<p class=\"placeholder\">%s</p>\n", html.EscapeString(ch.Description))
	}

	if len(ch.KeyTakeaways) > 0 {
		b.WriteString("<aside class=\"takeaways\">\n<h3>Key Takeaways</h3>\n<ul>\n")
		for _, t := range ch.KeyTakeaways {
			fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(t))
		}
		b.WriteString("</ul>\n</aside>\n")
	}
	b.WriteString("</section>\n")
}

func writeBonusBlock(b *strings.Builder, bonuses []models.BonusContent) {
	if len(bonuses) == 0 {
		return
	}
	b.WriteString("<section class=\"bonus\">\n<h2>Bonus Content</h2>\n")
	for _, bonus := range bonuses {
		fmt.Fprintf(b, "<h3>%s</h3>\n", html.EscapeString(bonus.Title))
		if bonus.Description != "" {
			fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(bonus.Description))
		}
	}
	b.WriteString("</section>\n")
}

func writeStructureSections(b *strings.Builder, structure *models.ProductStructure) {
	for _, part := range structure.Parts {
		b.WriteString("<section class=\"chapter\">\n")
		fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(part.Title))
		if part.Description != "" {
			fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(part.Description))
		}
		for _, mod := range part.Modules {
			fmt.Fprintf(b, "<h3>%s</h3>\n", html.EscapeString(mod.Title))
			if mod.Description != "" {
				fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(mod.Description))
			}
			if len(mod.ContentItems) > 0 {
				b.WriteString("<ul>\n")
				for _, item := range mod.ContentItems {
					fmt.Fprintf(b, "<li>[%s] %s</li>\n", item.Type, html.EscapeString(item.Title))
				}
				b.WriteString("</ul>\n")
			}
		}
		b.WriteString("</section>\n")
	}

	if len(structure.TechRequirements) > 0 {
		b.WriteString("<section class=\"bonus\">\n<h2>Technical Requirements</h2>\n<ul>\n")
		for _, req := range structure.TechRequirements {
			fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(req))
		}
		b.WriteString("</ul>\n</section>\n")
	}
}
