package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchlab/productforge/api"
	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/delivery"
	"github.com/launchlab/productforge/generation"
	"github.com/launchlab/productforge/importer"
	"github.com/launchlab/productforge/processing"
	rh "github.com/launchlab/productforge/route-handlers"
	"github.com/launchlab/productforge/storage"
	_ "github.com/lib/pq"
)

const (
	defaultPort             = "8080"
	defaultDatabaseURL      = "user=postgres password=password dbname=productforge host=localhost port=5432 sslmode=disable"
	defaultGenerationAPIURL = "http://localhost:9090"
	defaultImageRenderURL   = "http://localhost:9091"
	dbPingTimeout           = 5 * time.Second
	shutdownTimeout         = 15 * time.Second
	dbMaxOpenConns          = 25
	dbMaxIdleConns          = 25
	dbConnMaxLifetime       = 5 * time.Minute
)

type config struct {
	port               string
	databaseURL        string
	generationAPIURL   string
	generationAPIKey   string
	imageRenderBaseURL string
	localAssetDir      string
	pricingDisabled    bool
	minio              storage.MinioConfig
}

func main() {
	cfg := loadConfig()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	productRepo := datastore.NewProductRepository(db)
	exportRecordRepo := datastore.NewExportRecordRepository(db)

	assetStorer := setupAssetStorer(cfg)
	generationClient := generation.NewHTTPClient(cfg.generationAPIURL, cfg.generationAPIKey)

	sessions := processing.NewSessionRegistry(generationClient, assetStorer, cfg.imageRenderBaseURL, cfg.pricingDisabled)
	exportService := processing.NewExportService(productRepo, exportRecordRepo)
	downloader := delivery.NewDownloader()
	contentImporter := importer.NewImporter()

	productHandler := rh.NewProductHandler(productRepo, sessions)
	generationHandler := rh.NewGenerationHandler(productRepo, sessions)
	assetHandler := rh.NewAssetHandler(productRepo, sessions)
	contentHandler := rh.NewContentHandler(productRepo, sessions, contentImporter)
	checklistHandler := rh.NewChecklistHandler(productRepo, sessions)
	exportHandler := rh.NewExportHandler(productRepo, sessions, exportService, downloader)

	router := api.SetupRoutes(
		productHandler,
		generationHandler,
		assetHandler,
		contentHandler,
		checklistHandler,
		exportHandler,
	)

	startServer(cfg.port, router)
}

func loadConfig() config {
	// Optional local overrides; the environment wins in deployment.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	generationAPIURL := os.Getenv("GENERATION_API_URL")
	if generationAPIURL == "" {
		generationAPIURL = defaultGenerationAPIURL
		log.Println("WARNING: GENERATION_API_URL not set, using default local endpoint.")
	}

	generationAPIKey := os.Getenv("GENERATION_API_KEY")
	if generationAPIKey == "" {
		log.Println("WARNING: GENERATION_API_KEY not set. Generation requests may be rejected.")
	}

	imageRenderBaseURL := os.Getenv("IMAGE_RENDER_BASE_URL")
	if imageRenderBaseURL == "" {
		imageRenderBaseURL = defaultImageRenderURL
	}

	return config{
		port:               port,
		databaseURL:        dbURL,
		generationAPIURL:   generationAPIURL,
		generationAPIKey:   generationAPIKey,
		imageRenderBaseURL: imageRenderBaseURL,
		localAssetDir:      os.Getenv("LOCAL_ASSET_DIR"),
		pricingDisabled:    os.Getenv("PRICING_ENABLED") == "false",
		minio: storage.MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    os.Getenv("MINIO_BUCKET"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
	}
}

// setupAssetStorer prefers object storage when configured and falls back to
// local disk for development.
func setupAssetStorer(cfg config) storage.AssetStorer {
	if cfg.minio.Endpoint != "" {
		storer, err := storage.NewMinioAssetStorer(cfg.minio)
		if err != nil {
			log.Fatalf("Object storage setup failed: %v", err)
		}
		return storer
	}
	log.Println("WARNING: MINIO_ENDPOINT not set, storing assets on local disk.")
	return storage.NewLocalAssetStorer(cfg.localAssetDir)
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
