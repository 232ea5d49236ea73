package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// StoredObject describes one durably stored asset as reported by the backend.
// The URLs returned here replace any locally-scoped preview URLs the session
// was holding.
type StoredObject struct {
	ID           string
	PublicURL    string
	ThumbnailURL string
	StoragePath  string
}

// AssetStorer is the object-storage boundary for media assets.
type AssetStorer interface {
	// Store persists the content and returns the backend record for it.
	Store(ctx context.Context, productID, assetID, fileName string, content []byte, contentType string) (*StoredObject, error)
	// Delete removes the object identified by the backend id. Missing objects
	// may or may not error depending on the backend; callers must not assume
	// idempotency.
	Delete(ctx context.Context, backendID string) error
}

const defaultLocalAssetDir = "_output/assets"

// LocalAssetStorer implements AssetStorer on the local file system, for
// development and tests.
type LocalAssetStorer struct {
	basePath string
}

// NewLocalAssetStorer creates a LocalAssetStorer. An empty basePath falls back
// to the default output directory.
func NewLocalAssetStorer(basePath string) *LocalAssetStorer {
	if basePath == "" {
		basePath = defaultLocalAssetDir
	}
	return &LocalAssetStorer{basePath: basePath}
}

func (s *LocalAssetStorer) Store(_ context.Context, productID, assetID, fileName string, content []byte, _ string) (*StoredObject, error) {
	if productID == "" || assetID == "" {
		return nil, fmt.Errorf("productID and assetID cannot be empty for storing an asset")
	}

	relativePath := filepath.Join(productID, assetID+filepath.Ext(fileName))
	fullDir := filepath.Join(s.basePath, productID)
	fullPath := filepath.Join(s.basePath, relativePath)

	if err := os.MkdirAll(fullDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return nil, fmt.Errorf("failed to write asset content: %w", err)
	}

	log.Printf("INFO (LocalAssetStorer): Stored asset at %s (%d bytes)", fullPath, len(content))
	publicURL := "/static/assets/" + filepath.ToSlash(relativePath)
	return &StoredObject{
		ID:           relativePath,
		PublicURL:    publicURL,
		ThumbnailURL: publicURL,
		StoragePath:  relativePath,
	}, nil
}

func (s *LocalAssetStorer) Delete(_ context.Context, backendID string) error {
	if backendID == "" {
		return fmt.Errorf("backend id cannot be empty for delete")
	}
	fullPath := filepath.Join(s.basePath, backendID)
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", backendID, err)
	}
	return nil
}
