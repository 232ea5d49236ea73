package export

import (
	"regexp"
	"strings"

	"github.com/launchlab/productforge/models"
)

var nonAlphanumericPattern = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename derives the download file name from the product name: every
// character outside [a-zA-Z0-9] becomes an underscore, the result is
// lowercased, and the format extension is appended. Every renderer uses this
// same rule.
func Filename(productName string, format models.ExportFormat) string {
	sanitized := nonAlphanumericPattern.ReplaceAllString(productName, "_")
	return strings.ToLower(sanitized) + "." + format.Extension()
}
