package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/launchlab/productforge/route-handlers"
	"github.com/launchlab/productforge/webutil"
)

const (
	apiBasePath      = "/api"
	productsBasePath = "/products"
)

const (
	generateSubPath         = "/generate"
	generationStatusSubPath = "/generation-status"
	assetsSubPath           = "/assets"
	assetsSaveSubPath       = "/save"
	assetPreviewSubPath     = "/preview"
	assetSelectSubPath      = "/select"
	importChapterSubPath    = "/import-chapter"
	checklistSubPath        = "/checklist"
	previewReviewedSubPath  = "/preview-reviewed"
	exportSubPath           = "/export"
	exportHistorySubPath    = "/exports"
	saveSubPath             = "/save"
	sessionSubPath          = "/session"
)

const (
	paramID      = "id"      // product id path parameter
	paramAssetID = "assetId" // asset id path parameter
)

// requestTimeout bounds every request, including synchronous generation calls
// that wait on the external service.
const requestTimeout = 3 * time.Minute

func SetupRoutes(
	productHandler *rh.ProductHandler,
	generationHandler *rh.GenerationHandler,
	assetHandler *rh.AssetHandler,
	contentHandler *rh.ContentHandler,
	checklistHandler *rh.ChecklistHandler,
	exportHandler *rh.ExportHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Log every request
	r.Use(middleware.Recoverer) // Recover from panics
	r.Use(middleware.Timeout(requestTimeout))

	r.Route(apiBasePath, func(r chi.Router) {
		configureProductRoutes(r, productHandler, generationHandler, assetHandler, contentHandler, checklistHandler, exportHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

func configureProductRoutes(
	r chi.Router,
	productHandler *rh.ProductHandler,
	generationHandler *rh.GenerationHandler,
	assetHandler *rh.AssetHandler,
	contentHandler *rh.ContentHandler,
	checklistHandler *rh.ChecklistHandler,
	exportHandler *rh.ExportHandler,
) {
	productSpecificPath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(productsBasePath, func(r chi.Router) {
		r.Post("/", webutil.MakeHandler(productHandler.HandleCreateProduct))

		r.Route(productSpecificPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(productHandler.HandleGetProduct))
			r.Put("/", webutil.MakeHandler(productHandler.HandleUpdateProduct))
			r.Post(saveSubPath, webutil.MakeHandler(productHandler.HandleSaveProduct))
			r.Delete(sessionSubPath, webutil.MakeHandler(productHandler.HandleCloseSession))

			r.Post(generateSubPath, webutil.MakeHandler(generationHandler.HandleGenerate))
			r.Get(generationStatusSubPath, webutil.MakeHandler(generationHandler.HandleGenerationStatus))

			configureAssetRoutes(r, assetHandler)

			r.Post(importChapterSubPath, webutil.MakeHandler(contentHandler.HandleImportChapter))

			r.Get(checklistSubPath, webutil.MakeHandler(checklistHandler.HandleGetChecklist))
			r.Post(checklistSubPath+previewReviewedSubPath, webutil.MakeHandler(checklistHandler.HandlePreviewReviewed))

			r.Post(exportSubPath, webutil.MakeHandler(exportHandler.HandleExport))
			r.Get(exportHistorySubPath, webutil.MakeHandler(exportHandler.HandleExportHistory))
		})
	})
}

func configureAssetRoutes(r chi.Router, assetHandler *rh.AssetHandler) {
	assetSpecificPath := pathWithParam("", paramAssetID) // e.g., "/{assetId}"

	r.Route(assetsSubPath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(assetHandler.HandleListAssets))
		r.Post("/", webutil.MakeHandler(assetHandler.HandleUploadAsset))
		r.Post(generateSubPath, webutil.MakeHandler(assetHandler.HandleGenerateAsset))
		r.Post(assetsSaveSubPath, webutil.MakeHandler(assetHandler.HandleSaveAssets))

		r.Route(assetSpecificPath, func(r chi.Router) {
			r.Delete("/", webutil.MakeHandler(assetHandler.HandleDeleteAsset))
			r.Post(assetSelectSubPath, webutil.MakeHandler(assetHandler.HandleSelectAsset))
			r.Get(assetPreviewSubPath, webutil.MakeHandler(assetHandler.HandleAssetPreview))
		})
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
