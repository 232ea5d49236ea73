package export

import (
	"testing"

	"github.com/launchlab/productforge/models"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		name    string
		product string
		format  models.ExportFormat
		want    string
	}{
		{"spaces and punctuation", "My Guide! 2.0", models.ExportFormatHTML, "my_guide__2_0.html"},
		{"markdown extension", "My Guide! 2.0", models.ExportFormatMarkdown, "my_guide__2_0.md"},
		{"doc uses epub extension", "Launch Plan", models.ExportFormatDoc, "launch_plan.epub"},
		{"print keeps html extension", "Launch Plan", models.ExportFormatPrint, "launch_plan.html"},
		{"already clean", "simple", models.ExportFormatHTML, "simple.html"},
		{"unicode replaced", "Précis", models.ExportFormatMarkdown, "pr_cis.md"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Filename(tc.product, tc.format); got != tc.want {
				t.Fatalf("Filename(%q, %s) = %q, want %q", tc.product, tc.format, got, tc.want)
			}
		})
	}
}
