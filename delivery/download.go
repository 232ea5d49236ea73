package delivery

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/launchlab/productforge/export"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/webutil"
)

// BlockedError reports a delivery-mechanism failure: the artifact rendered
// fine but could not reach the user. It is deliberately distinct from
// generation and storage errors so the caller can suggest a different format.
type BlockedError struct {
	Format models.ExportFormat
	Cause  error
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("delivery of %s export was blocked: %v", e.Format, e.Cause)
}

func (e *BlockedError) Unwrap() error {
	return e.Cause
}

// Downloader is the download boundary: it turns a rendered artifact into an
// HTTP download, or an inline page for the print path.
type Downloader struct{}

func NewDownloader() *Downloader {
	return &Downloader{}
}

// Deliver writes the artifact to the response. Regular formats are delivered
// as attachments; the print format is delivered inline so the viewing context
// can invoke the print dialog for PDF capture. The payload is written in one
// pass: either the user receives the whole file or a BlockedError is
// reported, never a partial artifact presented as success.
func (d *Downloader) Deliver(w http.ResponseWriter, artifact export.Artifact) error {
	w.Header().Set(webutil.HeaderContentType, artifact.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Bytes)))

	switch artifact.Format {
	case models.ExportFormatPrint:
		w.Header().Set(webutil.HeaderContentDisposition, "inline")
	default:
		w.Header().Set(webutil.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	}

	n, err := w.Write(artifact.Bytes)
	if err != nil {
		return &BlockedError{Format: artifact.Format, Cause: err}
	}
	if n != len(artifact.Bytes) {
		return &BlockedError{Format: artifact.Format, Cause: fmt.Errorf("short write: %d of %d bytes", n, len(artifact.Bytes))}
	}

	log.Printf("INFO (Downloader): Delivered %s (%d bytes)", artifact.Filename, n)
	return nil
}
