package export

import "github.com/launchlab/productforge/models"

// PrintRenderer produces the print-ready page for PDF capture. The payload is
// byte-identical to the HTML renderer's; only the delivery path differs, which
// the download boundary decides from the artifact format.
type PrintRenderer struct {
	html *HTMLRenderer
}

func NewPrintRenderer() *PrintRenderer {
	return &PrintRenderer{html: NewHTMLRenderer()}
}

func (r *PrintRenderer) Render(product models.Product, assets []models.Asset) (Artifact, error) {
	artifact, err := r.html.Render(product, assets)
	if err != nil {
		return Artifact{}, err
	}
	artifact.Format = models.ExportFormatPrint
	artifact.MIMEType = models.ExportFormatPrint.MIMEType()
	artifact.Filename = Filename(product.Name, models.ExportFormatPrint)
	return artifact, nil
}
