package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/launchlab/productforge/models"
)

// ExportRecordRepository handles database operations for export history.
type ExportRecordRepository struct {
	db *sql.DB
}

func NewExportRecordRepository(db *sql.DB) *ExportRecordRepository {
	return &ExportRecordRepository{db: db}
}

// CreateExportRecord inserts a new export history entry.
func (r *ExportRecordRepository) CreateExportRecord(ctx context.Context, record *models.ExportRecord) error {
	if record.ID == "" || record.ProductID == "" {
		return fmt.Errorf("missing required fields for creating export record")
	}
	if _, err := uuid.Parse(record.ID); err != nil {
		return fmt.Errorf("invalid export record ID format: %w", err)
	}
	if _, err := uuid.Parse(record.ProductID); err != nil {
		return fmt.Errorf("invalid product ID format: %w", err)
	}

	query := `
		INSERT INTO export_records (
			id, product_id, format, file_name, byte_size, status, warning, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.ProductID, string(record.Format), record.FileName,
		record.ByteSize, string(record.Status), record.Warning, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert export record: %w", err)
	}
	return nil
}

// GetExportRecordsByProductID retrieves the export history for a product,
// newest first.
func (r *ExportRecordRepository) GetExportRecordsByProductID(ctx context.Context, productID string) ([]models.ExportRecord, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, fmt.Errorf("invalid product ID format: %w", err)
	}

	query := `
		SELECT id, product_id, format, file_name, byte_size, status, warning, created_at
		FROM export_records
		WHERE product_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query export records for product %s: %w", productID, err)
	}
	defer rows.Close()

	var records []models.ExportRecord
	for rows.Next() {
		var record models.ExportRecord
		var formatStr, statusStr string
		if err := rows.Scan(
			&record.ID, &record.ProductID, &formatStr, &record.FileName,
			&record.ByteSize, &statusStr, &record.Warning, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export record row: %w", err)
		}
		record.Format = models.ExportFormat(formatStr)
		record.Status = models.ExportRecordStatus(statusStr)
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export record rows: %w", err)
	}

	if records == nil {
		records = []models.ExportRecord{}
	}
	return records, nil
}
