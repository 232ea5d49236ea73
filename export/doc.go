package export

import (
	"fmt"

	"github.com/launchlab/productforge/models"
)

// DocumentBuilder is the external document-building collaborator behind the
// binary doc format. The renderer's only responsibilities are input shaping
// and propagating the collaborator's failure as its own.
type DocumentBuilder interface {
	Build(product models.Product, assets []models.Asset) ([]byte, error)
}

// DocRenderer delegates the doc format to a DocumentBuilder.
type DocRenderer struct {
	builder DocumentBuilder
}

func NewDocRenderer(builder DocumentBuilder) *DocRenderer {
	return &DocRenderer{builder: builder}
}

func (r *DocRenderer) Render(product models.Product, assets []models.Asset) (Artifact, error) {
	payload, err := r.builder.Build(product, assets)
	if err != nil {
		return Artifact{}, fmt.Errorf("document builder failed for product %q: %w", product.Name, err)
	}

	format := models.ExportFormatDoc
	return Artifact{
		Bytes:    payload,
		MIMEType: format.MIMEType(),
		Filename: Filename(product.Name, format),
		Format:   format,
	}, nil
}
