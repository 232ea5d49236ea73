package export

import (
	"fmt"

	"github.com/launchlab/productforge/models"
)

// Artifact is a fully rendered export payload. Renderers either return a
// complete artifact or an error; a partial file is never handed to the
// download boundary.
type Artifact struct {
	Bytes    []byte
	MIMEType string
	Filename string
	Format   models.ExportFormat
}

// Renderer turns the current content model plus the asset list into an
// artifact in one format.
type Renderer interface {
	Render(product models.Product, assets []models.Asset) (Artifact, error)
}

// For returns the renderer for the requested format.
func For(format models.ExportFormat) (Renderer, error) {
	switch format {
	case models.ExportFormatHTML:
		return NewHTMLRenderer(), nil
	case models.ExportFormatMarkdown:
		return NewMarkdownRenderer(), nil
	case models.ExportFormatDoc:
		return NewDocRenderer(NewEPUBBuilder()), nil
	case models.ExportFormatPrint:
		return NewPrintRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// coverAsset returns the first durably stored cover image, if any.
func coverAsset(assets []models.Asset) (models.Asset, bool) {
	for _, a := range assets {
		if a.Category == models.AssetCategoryCover && a.IsDurable() {
			return a, true
		}
	}
	return models.Asset{}, false
}
