package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/launchlab/productforge/assets"
	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/processing"
	"github.com/launchlab/productforge/webutil"
)

// maxUploadBytes caps a single media upload at 32 MiB.
const maxUploadBytes = 32 << 20

type AssetHandler struct {
	Repo     *datastore.ProductRepository
	Sessions *processing.SessionRegistry
}

func NewAssetHandler(repo *datastore.ProductRepository, sessions *processing.SessionRegistry) *AssetHandler {
	return &AssetHandler{Repo: repo, Sessions: sessions}
}

type generateAssetRequest struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

type selectAssetRequest struct {
	Selected bool `json:"selected"`
}

// Accepts a multipart upload and runs it through the asset lifecycle. A failed
// backend upload still returns 201: the asset degrades to a locally viewable
// state instead of being dropped.
func (h *AssetHandler) HandleUploadAsset(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return webutil.ErrBadRequest("Invalid multipart upload: " + err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return webutil.ErrBadRequest("A 'file' form field is required")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file %q: %w", header.Filename, err)
	}
	if len(content) == 0 {
		return webutil.ErrBadRequest("Uploaded file is empty")
	}

	category := models.AssetCategoryUploaded
	if raw := r.FormValue("category"); raw != "" {
		validCategory, ok := models.IsValidAssetCategory(raw)
		if !ok {
			return webutil.ErrBadRequest("Invalid asset category: " + raw)
		}
		category = validCategory
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	asset, err := session.Assets.CreateFromUpload(r.Context(), header.Filename, assetTypeForContentType(contentType), category, content, contentType)
	if err != nil {
		return fmt.Errorf("failed to register upload for product %s: %w", productID, err)
	}

	if session.Assets.ReadyCount() > 0 {
		session.Gate.MarkAssetsReady()
	}

	webutil.RespondWithJSON(w, http.StatusCreated, asset)
	return nil
}

// Creates an AI-generated image asset from a prompt.
func (h *AssetHandler) HandleGenerateAsset(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	var req generateAssetRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Prompt) == "" {
		return webutil.ErrBadRequest("A prompt is required")
	}
	category := models.AssetCategoryIllustration
	if req.Category != "" {
		validCategory, ok := models.IsValidAssetCategory(req.Category)
		if !ok {
			return webutil.ErrBadRequest("Invalid asset category: " + req.Category)
		}
		category = validCategory
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	asset := session.Assets.CreateFromGeneration(req.Prompt, category)
	session.Gate.MarkAssetsReady()

	webutil.RespondWithJSON(w, http.StatusCreated, asset)
	return nil
}

func (h *AssetHandler) HandleListAssets(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, session.Assets.List())
	return nil
}

func (h *AssetHandler) HandleSelectAsset(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}
	assetID := chi.URLParam(r, "assetId")

	var req selectAssetRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	if err := session.Assets.SetSelected(assetID, req.Selected); err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			return webutil.ErrNotFound("Asset not found")
		}
		return fmt.Errorf("failed to select asset %s: %w", assetID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Batch-saves every selected asset. Per-asset failures do not abort the batch;
// the response carries the success count and the refreshed list.
func (h *AssetHandler) HandleSaveAssets(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	saved := session.Assets.SaveSelected(r.Context())
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"saved":  saved,
		"assets": session.Assets.List(),
	})
	return nil
}

func (h *AssetHandler) HandleDeleteAsset(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}
	assetID := chi.URLParam(r, "assetId")

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	if err := session.Assets.DeleteAsset(r.Context(), assetID); err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			return webutil.ErrNotFound("Asset not found")
		}
		// Pessimistic delete: storage refused, so the asset stays.
		return fmt.Errorf("failed to delete asset %s for product %s: %w", assetID, productID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Serves the retained bytes of a not-yet-durable asset, backing the
// locally-scoped preview URL that degraded uploads carry.
func (h *AssetHandler) HandleAssetPreview(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}
	assetID := chi.URLParam(r, "assetId")

	session, ok := h.Sessions.Get(productID)
	if !ok {
		return webutil.ErrNotFound("No active editing session for product")
	}

	content, contentType, ok := session.Assets.LocalContent(assetID)
	if !ok {
		return webutil.ErrNotFound("No local preview available for asset")
	}

	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	w.Header().Set(webutil.HeaderContentType, contentType)
	_, _ = w.Write(content)
	return nil
}

func assetTypeForContentType(contentType string) models.AssetType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.AssetTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return models.AssetTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return models.AssetTypeAudio
	case contentType == "application/pdf" || strings.HasPrefix(contentType, "text/"):
		return models.AssetTypeDocument
	default:
		return models.AssetTypeOther
	}
}
