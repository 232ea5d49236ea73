package processing

import (
	"context"
	"errors"
	"testing"

	"github.com/launchlab/productforge/export"
	"github.com/launchlab/productforge/models"
)

type fakeProductStore struct {
	saveErr error
	saved   []models.Product
}

func (s *fakeProductStore) SaveSnapshot(_ context.Context, product *models.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, *product)
	return nil
}

type fakeRecordStore struct {
	records []models.ExportRecord
}

func (s *fakeRecordStore) CreateExportRecord(_ context.Context, record *models.ExportRecord) error {
	s.records = append(s.records, *record)
	return nil
}

func (s *fakeRecordStore) GetExportRecordsByProductID(_ context.Context, _ string) ([]models.ExportRecord, error) {
	return s.records, nil
}

func newTestSession(product *models.Product) *EditingSession {
	return NewSessionRegistry(nil, nil, "", false).Open(product)
}

func exportableProduct() *models.Product {
	return &models.Product{
		ID:   "6f1b0a1e-1111-4a6b-9d3e-000000000007",
		Name: "Test Guide",
		Type: models.ProductTypeContent,
		RawAnalysis: models.RawAnalysis{
			Outline: &models.ContentOutline{Chapters: []models.Chapter{
				{ID: "c1", Number: 1, Title: "One", Content: "Body."},
			}},
		},
	}
}

func TestRenderRejectsWhenChecklistIncomplete(t *testing.T) {
	records := &fakeRecordStore{}
	service := NewExportService(&fakeProductStore{}, records)
	session := newTestSession(exportableProduct())

	_, err := service.Render(context.Background(), session, models.ExportFormatHTML, false)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("render with open checklist returned %v, want ErrNotReady", err)
	}
	// A gate rejection is not an export attempt: nothing is recorded.
	if got := len(records.records); got != 0 {
		t.Fatalf("gate rejection wrote %d export records, want 0", got)
	}
}

func TestRenderAllowIncompleteBypassesGate(t *testing.T) {
	service := NewExportService(&fakeProductStore{}, &fakeRecordStore{})
	session := newTestSession(exportableProduct())

	artifact, err := service.Render(context.Background(), session, models.ExportFormatHTML, true)
	if err != nil {
		t.Fatalf("partial export failed: %v", err)
	}
	if len(artifact.Bytes) == 0 || artifact.Filename == "" {
		t.Fatalf("partial export produced an empty artifact: %+v", artifact)
	}
}

func TestRenderFailureRecordsFailedExport(t *testing.T) {
	records := &fakeRecordStore{}
	service := NewExportService(&fakeProductStore{}, records)
	session := newTestSession(&models.Product{
		ID:   "6f1b0a1e-1111-4a6b-9d3e-000000000008",
		Name: "Empty Guide",
		Type: models.ProductTypeContent,
	})

	artifact, err := service.Render(context.Background(), session, models.ExportFormatHTML, true)
	if err == nil {
		t.Fatal("expected rendering without an outline to fail")
	}
	if len(artifact.Bytes) != 0 {
		t.Fatalf("failed render still produced %d bytes", len(artifact.Bytes))
	}

	if got := len(records.records); got != 1 {
		t.Fatalf("failed render wrote %d export records, want 1", got)
	}
	record := records.records[0]
	if record.Status != models.ExportRecordFailed || record.Warning == "" {
		t.Fatalf("failure record = %+v, want failed status with a reason", record)
	}
}

func TestFinalizeRecordsExportAndCompletesProduct(t *testing.T) {
	products := &fakeProductStore{}
	records := &fakeRecordStore{}
	service := NewExportService(products, records)
	session := newTestSession(exportableProduct())

	artifact := export.Artifact{
		Bytes:    []byte("<html></html>"),
		Filename: "test_guide.html",
		Format:   models.ExportFormatHTML,
	}
	if warning := service.Finalize(context.Background(), session, artifact); warning != "" {
		t.Fatalf("finalize returned warning %q, want none", warning)
	}

	if got := len(records.records); got != 1 {
		t.Fatalf("finalize wrote %d export records, want 1", got)
	}
	record := records.records[0]
	if record.Status != models.ExportRecordCompleted || record.FileName != "test_guide.html" {
		t.Fatalf("completion record = %+v", record)
	}
	if record.ByteSize != len(artifact.Bytes) {
		t.Fatalf("recorded byte size = %d, want %d", record.ByteSize, len(artifact.Bytes))
	}

	if got := len(products.saved); got != 1 {
		t.Fatalf("finalize saved %d snapshots, want 1", got)
	}
	if products.saved[0].Status != models.ProductStatusCompleted {
		t.Fatalf("saved snapshot status = %s, want completed", products.saved[0].Status)
	}
}

func TestFinalizeDowngradesSaveFailureToWarning(t *testing.T) {
	products := &fakeProductStore{saveErr: errors.New("connection reset")}
	records := &fakeRecordStore{}
	service := NewExportService(products, records)
	session := newTestSession(exportableProduct())

	artifact := export.Artifact{
		Bytes:    []byte("<html></html>"),
		Filename: "test_guide.html",
		Format:   models.ExportFormatHTML,
	}
	warning := service.Finalize(context.Background(), session, artifact)
	if warning == "" {
		t.Fatal("finalize swallowed the snapshot failure, want a warning")
	}

	// The artifact already reached the user: the export record stands and the
	// in-memory session still reflects completion.
	if got := len(records.records); got != 1 {
		t.Fatalf("finalize wrote %d export records after save failure, want 1", got)
	}
	if status := session.Content.Product().Status; status != models.ProductStatusCompleted {
		t.Fatalf("session status after finalize = %s, want completed", status)
	}
}
