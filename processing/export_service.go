package processing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/launchlab/productforge/export"
	"github.com/launchlab/productforge/models"
)

// ErrNotReady rejects an export while the checklist gate is not satisfied.
var ErrNotReady = errors.New("export checklist is not complete")

// ProductStore persists product snapshots. Satisfied by
// datastore.ProductRepository.
type ProductStore interface {
	SaveSnapshot(ctx context.Context, product *models.Product) error
}

// ExportRecordStore persists and lists export history. Satisfied by
// datastore.ExportRecordRepository.
type ExportRecordStore interface {
	CreateExportRecord(ctx context.Context, record *models.ExportRecord) error
	GetExportRecordsByProductID(ctx context.Context, productID string) ([]models.ExportRecord, error)
}

// ExportService runs the export pipeline for a session: gate check, render,
// and the post-delivery follow-ups (history record, product completion).
type ExportService struct {
	ProductRepo ProductStore
	RecordRepo  ExportRecordStore
}

func NewExportService(productRepo ProductStore, recordRepo ExportRecordStore) *ExportService {
	return &ExportService{ProductRepo: productRepo, RecordRepo: recordRepo}
}

// Render produces the artifact for the requested format. Rendering is atomic:
// any failure yields no artifact at all. allowIncomplete bypasses the
// checklist gate for partial exports.
func (s *ExportService) Render(ctx context.Context, session *EditingSession, format models.ExportFormat, allowIncomplete bool) (export.Artifact, error) {
	if !allowIncomplete && !session.Gate.Ready() {
		return export.Artifact{}, ErrNotReady
	}

	renderer, err := export.For(format)
	if err != nil {
		return export.Artifact{}, err
	}

	// Sync the asset snapshot onto the product so the renderer and the next
	// wholesale save both see the current list.
	assetList := session.Assets.List()
	session.Content.SetAssets(assetList)
	product := session.Content.Product()

	artifact, err := renderer.Render(product, assetList)
	if err != nil {
		s.recordExport(ctx, session.ProductID, format, "", 0, models.ExportRecordFailed, err.Error())
		return export.Artifact{}, fmt.Errorf("failed to render %s export for product %s: %w", format, session.ProductID, err)
	}

	log.Printf("INFO (ExportService): Rendered %s export for product %s (%s, %d bytes)",
		format, session.ProductID, artifact.Filename, len(artifact.Bytes))
	return artifact, nil
}

// Finalize runs the best-effort follow-ups after the artifact was delivered:
// record the export and mark the product completed, persisting the snapshot.
// The artifact has already reached the user, so failures here are downgraded
// to a returned warning rather than an error.
func (s *ExportService) Finalize(ctx context.Context, session *EditingSession, artifact export.Artifact) string {
	var warning string

	s.recordExport(ctx, session.ProductID, artifact.Format, artifact.Filename, len(artifact.Bytes), models.ExportRecordCompleted, "")

	session.Content.SetStatus(models.ProductStatusCompleted)
	product := session.Content.Product()
	if err := s.ProductRepo.SaveSnapshot(ctx, &product); err != nil {
		warning = fmt.Sprintf("export delivered, but marking product %s completed failed: %v", session.ProductID, err)
		log.Printf("WARN (ExportService): %s", warning)
	}
	return warning
}

func (s *ExportService) recordExport(ctx context.Context, productID string, format models.ExportFormat, fileName string, byteSize int, status models.ExportRecordStatus, failure string) {
	record := models.ExportRecord{
		ID:        uuid.NewString(),
		ProductID: productID,
		Format:    format,
		FileName:  fileName,
		ByteSize:  byteSize,
		Status:    status,
		Warning:   failure,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.RecordRepo.CreateExportRecord(ctx, &record); err != nil {
		log.Printf("WARN (ExportService): Failed to record %s export for product %s: %v", format, productID, err)
	}
}
