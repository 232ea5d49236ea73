package export

import (
	"fmt"
	"strings"

	"github.com/launchlab/productforge/models"
)

// MarkdownRenderer produces a deliberately simpler document than the HTML
// renderer: one #-heading for the product name, then one ##-heading per
// chapter with its raw content verbatim. The generated text is already
// markdown-shaped, so it must NOT pass through the HTML substitution pipeline.
// Structure-shaped products get a nested part level at heading level 3. Key
// takeaways and bonus content are not included.
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

func (r *MarkdownRenderer) Render(product models.Product, _ []models.Asset) (Artifact, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", product.Name)
	if product.Tagline != "" {
		fmt.Fprintf(&b, "%s\n\n", product.Tagline)
	}

	switch product.Type {
	case models.ProductTypeContent:
		outline := product.RawAnalysis.Outline
		if outline == nil || len(outline.Chapters) == 0 {
			return Artifact{}, fmt.Errorf("product %q has no outline to export", product.Name)
		}
		for _, ch := range outline.Chapters {
			fmt.Fprintf(&b, "## %s\n\n", ch.Title)
			if ch.IsComplete() {
				b.WriteString(strings.TrimRight(ch.Content, "\n"))
				b.WriteString("\n\n")
			}
		}
	case models.ProductTypeSoftware:
		structure := product.RawAnalysis.Structure
		if structure == nil || len(structure.Parts) == 0 {
			return Artifact{}, fmt.Errorf("product %q has no structure to export", product.Name)
		}
		for _, part := range structure.Parts {
			fmt.Fprintf(&b, "### %s\n\n", part.Title)
			for _, mod := range part.Modules {
				fmt.Fprintf(&b, "- %s\n", mod.Title)
			}
			b.WriteString("\n")
		}
	default:
		return Artifact{}, fmt.Errorf("unknown product type %q", product.Type)
	}

	format := models.ExportFormatMarkdown
	return Artifact{
		Bytes:    []byte(b.String()),
		MIMEType: format.MIMEType(),
		Filename: Filename(product.Name, format),
		Format:   format,
	}, nil
}
