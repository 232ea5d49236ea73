package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/launchlab/productforge/models"
)

func contentProduct() models.Product {
	return models.Product{
		ID:      "6f1b0a1e-1111-4a6b-9d3e-000000000002",
		Name:    "Launch Guide",
		Tagline: "Ship faster",
		Type:    models.ProductTypeContent,
		RawAnalysis: models.RawAnalysis{
			Outline: &models.ContentOutline{
				Title: "Launch Guide",
				Chapters: []models.Chapter{
					{
						ID:           "c1",
						Number:       1,
						Title:        "Why Launch",
						Content:      "Opening paragraph with **bold** emphasis.",
						KeyTakeaways: []string{"Start small"},
					},
					{
						ID:          "c2",
						Number:      2,
						Title:       "How to Launch",
						Description: "Step by step launch plan.",
					},
				},
			},
		},
	}
}

func softwareProduct() models.Product {
	return models.Product{
		ID:   "6f1b0a1e-1111-4a6b-9d3e-000000000003",
		Name: "Course Builder",
		Type: models.ProductTypeSoftware,
		RawAnalysis: models.RawAnalysis{
			Structure: &models.ProductStructure{
				Parts: []models.Part{
					{
						ID:    "p1",
						Title: "Foundations",
						Modules: []models.Module{
							{ID: "m1", Title: "Setup"},
							{ID: "m2", Title: "First Steps"},
						},
					},
				},
			},
		},
	}
}

// The two text formats must diverge on markup: HTML runs the substitution
// pipeline, Markdown passes the raw content through verbatim.
func TestHTMLAndMarkdownDivergeOnMarkup(t *testing.T) {
	product := contentProduct()

	htmlArtifact, err := NewHTMLRenderer().Render(product, nil)
	if err != nil {
		t.Fatalf("html render failed: %v", err)
	}
	mdArtifact, err := NewMarkdownRenderer().Render(product, nil)
	if err != nil {
		t.Fatalf("markdown render failed: %v", err)
	}

	htmlOut := string(htmlArtifact.Bytes)
	mdOut := string(mdArtifact.Bytes)

	if !strings.Contains(htmlOut, "<strong>bold</strong>") {
		t.Fatalf("html output did not transform bold markers:\n%s", htmlOut)
	}
	if strings.Contains(htmlOut, "**bold**") {
		t.Fatalf("html output leaked raw bold markers:\n%s", htmlOut)
	}
	if !strings.Contains(mdOut, "**bold**") {
		t.Fatalf("markdown output must keep raw bold markers:\n%s", mdOut)
	}
	if strings.Contains(mdOut, "<strong>") {
		t.Fatalf("markdown output must not contain HTML tags:\n%s", mdOut)
	}
}

func TestHTMLRendererUsesPlaceholderForIncompleteChapter(t *testing.T) {
	artifact, err := NewHTMLRenderer().Render(contentProduct(), nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := string(artifact.Bytes)

	if !strings.Contains(out, `<p class="placeholder">Step by step launch plan.</p>`) {
		t.Fatalf("incomplete chapter missing placeholder description:\n%s", out)
	}
	if !strings.Contains(out, "<li>Chapter 2: How to Launch</li>") {
		t.Fatalf("table of contents missing chapter entry:\n%s", out)
	}
	if !strings.Contains(out, "<li>Start small</li>") {
		t.Fatalf("key takeaways missing:\n%s", out)
	}
}

func TestHTMLRendererCoverUsesOnlyDurableAssets(t *testing.T) {
	assets := []models.Asset{
		{ID: "a1", Category: models.AssetCategoryCover, Status: models.AssetStatusUploaded, URL: "/local/preview"},
		{ID: "a2", Category: models.AssetCategoryCover, Status: models.AssetStatusSaved, DBID: "db-2", URL: "https://cdn.example/cover.png"},
	}

	artifact, err := NewHTMLRenderer().Render(contentProduct(), assets)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := string(artifact.Bytes)

	if !strings.Contains(out, "https://cdn.example/cover.png") {
		t.Fatalf("durable cover not used:\n%s", out)
	}
	if strings.Contains(out, "/local/preview") {
		t.Fatalf("non-durable local URL leaked into the export:\n%s", out)
	}
}

func TestHTMLRendererFailsWithoutOutline(t *testing.T) {
	product := contentProduct()
	product.RawAnalysis.Outline = nil

	if _, err := NewHTMLRenderer().Render(product, nil); err == nil {
		t.Fatal("expected an error for a content product without an outline")
	}
}

func TestMarkdownRendererSoftwareProduct(t *testing.T) {
	artifact, err := NewMarkdownRenderer().Render(softwareProduct(), nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := string(artifact.Bytes)

	if !strings.Contains(out, "### Foundations\n") {
		t.Fatalf("part heading missing:\n%s", out)
	}
	if !strings.Contains(out, "- Setup\n- First Steps\n") {
		t.Fatalf("module bullets missing:\n%s", out)
	}
}

// The print payload is byte-identical to HTML; only format, MIME type, and
// delivery differ.
func TestPrintRendererReusesHTMLPayload(t *testing.T) {
	product := contentProduct()

	htmlArtifact, err := NewHTMLRenderer().Render(product, nil)
	if err != nil {
		t.Fatalf("html render failed: %v", err)
	}
	printArtifact, err := NewPrintRenderer().Render(product, nil)
	if err != nil {
		t.Fatalf("print render failed: %v", err)
	}

	if !bytes.Equal(htmlArtifact.Bytes, printArtifact.Bytes) {
		t.Fatal("print payload diverged from html payload")
	}
	if printArtifact.Format != models.ExportFormatPrint {
		t.Fatalf("print artifact format = %s, want %s", printArtifact.Format, models.ExportFormatPrint)
	}
}

type failingBuilder struct{}

func (failingBuilder) Build(models.Product, []models.Asset) ([]byte, error) {
	return nil, errors.New("builder exploded")
}

// A failing document builder yields no artifact at all: the renderer's failure
// is the builder's failure, and nothing partial reaches the download boundary.
func TestDocRendererPropagatesBuilderFailure(t *testing.T) {
	artifact, err := NewDocRenderer(failingBuilder{}).Render(contentProduct(), nil)
	if err == nil {
		t.Fatal("expected the builder failure to propagate")
	}
	if !strings.Contains(err.Error(), "builder exploded") {
		t.Fatalf("error does not carry the builder cause: %v", err)
	}
	if artifact.Bytes != nil {
		t.Fatalf("failed render produced a partial artifact: %d bytes", len(artifact.Bytes))
	}
}

func TestForReturnsRendererPerFormat(t *testing.T) {
	for _, format := range []models.ExportFormat{
		models.ExportFormatHTML,
		models.ExportFormatMarkdown,
		models.ExportFormatDoc,
		models.ExportFormatPrint,
	} {
		if _, err := For(format); err != nil {
			t.Fatalf("For(%s) returned error: %v", format, err)
		}
	}
	if _, err := For(models.ExportFormat("docx")); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}
