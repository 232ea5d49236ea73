package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/launchlab/productforge/models"
)

// ProductRepository handles database operations for products. The
// raw_analysis document is stored as a single JSON column and always written
// wholesale: this layer never patches individual nested fields.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct inserts a new product record.
func (r *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" || product.Name == "" {
		return fmt.Errorf("missing required fields for creating product")
	}
	if _, err := uuid.Parse(product.ID); err != nil {
		return fmt.Errorf("invalid product ID format: %w", err)
	}

	rawAnalysis, err := json.Marshal(product.RawAnalysis)
	if err != nil {
		return fmt.Errorf("failed to marshal raw_analysis: %w", err)
	}

	query := `
		INSERT INTO products (
			id, name, tagline, description, notes, price_point,
			product_type, status, raw_analysis, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Tagline, product.Description, product.Notes,
		product.PricePoint, string(product.Type), string(product.Status), rawAnalysis, product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// GetProductByID retrieves a product by its ID.
func (r *ProductRepository) GetProductByID(ctx context.Context, productID string) (*models.Product, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, fmt.Errorf("invalid product ID format: %w", err)
	}

	query := `
		SELECT id, name, tagline, description, notes, price_point,
		       product_type, status, raw_analysis, created_at
		FROM products
		WHERE id = $1
	`
	var product models.Product
	var typeStr, statusStr string
	var rawAnalysis []byte
	row := r.db.QueryRowContext(ctx, query, productID)
	err := row.Scan(
		&product.ID, &product.Name, &product.Tagline, &product.Description, &product.Notes,
		&product.PricePoint, &typeStr, &statusStr, &rawAnalysis, &product.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	product.Type = models.ProductType(typeStr)
	product.Status = models.ProductStatus(statusStr)
	if len(rawAnalysis) > 0 {
		if err := json.Unmarshal(rawAnalysis, &product.RawAnalysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal raw_analysis for product %s: %w", productID, err)
		}
	}
	return &product, nil
}

// SaveSnapshot writes the full current snapshot of every field this core
// owns. Partial patches are deliberately unsupported.
func (r *ProductRepository) SaveSnapshot(ctx context.Context, product *models.Product) error {
	if _, err := uuid.Parse(product.ID); err != nil {
		return fmt.Errorf("invalid product ID format: %w", err)
	}

	rawAnalysis, err := json.Marshal(product.RawAnalysis)
	if err != nil {
		return fmt.Errorf("failed to marshal raw_analysis: %w", err)
	}

	query := `
		UPDATE products
		SET name = $2, tagline = $3, description = $4, notes = $5,
		    price_point = $6, product_type = $7, status = $8, raw_analysis = $9
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Tagline, product.Description, product.Notes,
		product.PricePoint, string(product.Type), string(product.Status), rawAnalysis,
	)
	if err != nil {
		return fmt.Errorf("failed to save product snapshot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProductStatus updates only the lifecycle status.
func (r *ProductRepository) UpdateProductStatus(ctx context.Context, productID string, status models.ProductStatus) error {
	if _, err := uuid.Parse(productID); err != nil {
		return fmt.Errorf("invalid product ID format: %w", err)
	}

	query := `UPDATE products SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, productID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
