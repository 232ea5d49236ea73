package models

// ExportFormat defines the set of allowed export formats.
type ExportFormat string

const (
	ExportFormatHTML     ExportFormat = "html"
	ExportFormatMarkdown ExportFormat = "md"
	// ExportFormatDoc is the delegated binary document format; the payload is
	// produced by an external document-building collaborator.
	ExportFormatDoc ExportFormat = "doc"
	// ExportFormatPrint is the print-ready HTML page for PDF capture. Same
	// payload as HTML, distinct delivery path.
	ExportFormatPrint ExportFormat = "print"
)

// IsValidExportFormat returns the typed value for a raw string and whether it
// is a member of the closed set.
func IsValidExportFormat(s string) (ExportFormat, bool) {
	switch ExportFormat(s) {
	case ExportFormatHTML, ExportFormatMarkdown, ExportFormatDoc, ExportFormatPrint:
		return ExportFormat(s), true
	}
	return "", false
}

// Extension returns the file extension appended to sanitized filenames.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportFormatHTML, ExportFormatPrint:
		return "html"
	case ExportFormatMarkdown:
		return "md"
	case ExportFormatDoc:
		return "epub"
	}
	return string(f)
}

// MIMEType returns the content type for the rendered payload.
func (f ExportFormat) MIMEType() string {
	switch f {
	case ExportFormatHTML, ExportFormatPrint:
		return "text/html; charset=utf-8"
	case ExportFormatMarkdown:
		return "text/markdown; charset=utf-8"
	case ExportFormatDoc:
		return "application/epub+zip"
	}
	return "application/octet-stream"
}
