package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/delivery"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/processing"
	"github.com/launchlab/productforge/webutil"
)

type ExportHandler struct {
	Repo       *datastore.ProductRepository
	Sessions   *processing.SessionRegistry
	Service    *processing.ExportService
	Downloader *delivery.Downloader
}

func NewExportHandler(repo *datastore.ProductRepository, sessions *processing.SessionRegistry, service *processing.ExportService, downloader *delivery.Downloader) *ExportHandler {
	return &ExportHandler{Repo: repo, Sessions: sessions, Service: service, Downloader: downloader}
}

type exportRequest struct {
	Format          string `json:"format"`
	AllowIncomplete bool   `json:"allow_incomplete"`
}

// Renders and delivers one export. The checklist gate must be satisfied unless
// allow_incomplete is set. Rendering is atomic; a failed render delivers
// nothing. Post-delivery follow-ups never fail the request, only warn.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	var req exportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	format, ok := models.IsValidExportFormat(req.Format)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid format. Must be one of: %s, %s, %s, %s",
			models.ExportFormatHTML, models.ExportFormatMarkdown, models.ExportFormatDoc, models.ExportFormatPrint))
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	artifact, err := h.Service.Render(r.Context(), session, format, req.AllowIncomplete)
	if err != nil {
		if errors.Is(err, processing.ErrNotReady) {
			return webutil.ErrConflictWrap("Export checklist is not complete", err)
		}
		return fmt.Errorf("export for product %s: %w", productID, err)
	}

	if err := h.Downloader.Deliver(w, artifact); err != nil {
		// Headers are gone; nothing more can reach the user. Surface the
		// blocked delivery for the server log and skip the follow-ups.
		return err
	}

	// The artifact already reached the user; Finalize only warns on failure.
	_ = h.Service.Finalize(r.Context(), session, artifact)
	return nil
}

func (h *ExportHandler) HandleExportHistory(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	records, err := h.Service.RecordRepo.GetExportRecordsByProductID(r.Context(), productID)
	if err != nil {
		return fmt.Errorf("failed to retrieve export history for product %s: %w", productID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, records)
	return nil
}
