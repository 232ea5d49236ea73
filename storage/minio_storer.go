package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const presignedURLExpiry = 72 * time.Hour

// MinioConfig holds the connection settings for the object-storage backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioAssetStorer implements AssetStorer against a MinIO (or any
// S3-compatible) backend. Public URLs are presigned GETs.
type MinioAssetStorer struct {
	client *minio.Client
	bucket string
}

func NewMinioAssetStorer(cfg MinioConfig) (*MinioAssetStorer, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}
	log.Printf("INFO (MinioAssetStorer): Connected to object storage at %s (bucket: %s)", cfg.Endpoint, cfg.Bucket)
	return &MinioAssetStorer{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioAssetStorer) Store(ctx context.Context, productID, assetID, fileName string, content []byte, contentType string) (*StoredObject, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("products/%s/assets/%s%s", productID, assetID, filepath.Ext(fileName))
	if contentType == "" {
		contentType = contentTypeForExtension(filepath.Ext(fileName))
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset to object storage: %w", err)
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, presignedURLExpiry, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("failed to presign asset URL: %w", err)
	}

	log.Printf("INFO (MinioAssetStorer): Uploaded asset %s (%d bytes)", objectName, len(content))
	return &StoredObject{
		ID:           objectName,
		PublicURL:    presigned.String(),
		ThumbnailURL: presigned.String(),
		StoragePath:  objectName,
	}, nil
}

func (s *MinioAssetStorer) Delete(ctx context.Context, backendID string) error {
	if backendID == "" {
		return fmt.Errorf("backend id cannot be empty for delete")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, backendID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete asset %s from object storage: %w", backendID, err)
	}
	log.Printf("INFO (MinioAssetStorer): Deleted asset %s", backendID)
	return nil
}

func (s *MinioAssetStorer) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
		log.Printf("INFO (MinioAssetStorer): Created bucket %s", s.bucket)
	}
	return nil
}

func contentTypeForExtension(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".pdf":
		return "application/pdf"
	case ".mp4":
		return "video/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	}
	return "application/octet-stream"
}
