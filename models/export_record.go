package models

import "time"

// ExportRecordStatus is the final disposition of one export request.
type ExportRecordStatus string

const (
	ExportRecordCompleted ExportRecordStatus = "completed"
	ExportRecordFailed    ExportRecordStatus = "failed"
)

// ExportRecord is the persisted history entry for one export.
type ExportRecord struct {
	ID        string             `json:"id"`
	ProductID string             `json:"product_id"`
	Format    ExportFormat       `json:"format"`
	FileName  string             `json:"file_name"`
	ByteSize  int                `json:"byte_size"`
	Status    ExportRecordStatus `json:"status"`
	Warning   string             `json:"warning,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}
