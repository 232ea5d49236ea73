package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/processing"
	"github.com/launchlab/productforge/webutil"
)

type ProductHandler struct {
	Repo     *datastore.ProductRepository
	Sessions *processing.SessionRegistry
}

func NewProductHandler(repo *datastore.ProductRepository, sessions *processing.SessionRegistry) *ProductHandler {
	return &ProductHandler{Repo: repo, Sessions: sessions}
}

type createProductRequest struct {
	Name           string `json:"name"`
	Tagline        string `json:"tagline"`
	Description    string `json:"description"`
	Notes          string `json:"notes"`
	PricePoint     string `json:"price_point"`
	ProductType    string `json:"product_type"`
	TargetAudience string `json:"target_audience"`
	ProblemSolved  string `json:"problem_solved"`
}

type updateProductRequest struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	PricePoint  string `json:"price_point"`
}

func (h *ProductHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) error {
	var req createProductRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Name == "" {
		return webutil.ErrBadRequest("Product name is required")
	}
	productType, ok := models.IsValidProductType(req.ProductType)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid product_type. Must be one of: %s, %s",
			models.ProductTypeContent, models.ProductTypeSoftware))
	}

	newProduct := models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Tagline:     req.Tagline,
		Description: req.Description,
		Notes:       req.Notes,
		PricePoint:  req.PricePoint,
		Type:        productType,
		Status:      models.ProductStatusIdea,
		RawAnalysis: models.RawAnalysis{
			TargetAudience: req.TargetAudience,
			ProblemSolved:  req.ProblemSolved,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Repo.CreateProduct(r.Context(), &newProduct); err != nil {
		return fmt.Errorf("failed to create product %q: %w", newProduct.Name, err)
	}

	// A fresh product immediately gets an editing session so generation and
	// asset routes work without an extra open call.
	h.Sessions.Open(&newProduct)

	webutil.RespondWithJSON(w, http.StatusCreated, newProduct)
	return nil
}

func (h *ProductHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	// An open session is the authoritative copy; the datastore row may lag
	// behind until the next wholesale save.
	if session, ok := h.Sessions.Get(productID); ok {
		session.Content.SetAssets(session.Assets.List())
		product := session.Content.Product()
		webutil.RespondWithJSON(w, http.StatusOK, product)
		return nil
	}

	product, err := h.Repo.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Product not found")
		}
		return fmt.Errorf("failed to retrieve product %s: %w", productID, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, product)
	return nil
}

func (h *ProductHandler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	var req updateProductRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Name == "" {
		return webutil.ErrBadRequest("Product name is required")
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	session.Content.UpdateDetails(req.Name, req.Tagline, req.Description, req.Notes, req.PricePoint)
	if req.PricePoint != "" {
		session.Gate.MarkPricingSet()
	}

	product := session.Content.Product()
	if err := h.Repo.SaveSnapshot(r.Context(), &product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Product not found")
		}
		return fmt.Errorf("failed to save product %s: %w", productID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, product)
	return nil
}

// Persists the session's full in-memory snapshot, including the current asset
// list, as one wholesale write.
func (h *ProductHandler) HandleSaveProduct(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	session, ok := h.Sessions.Get(productID)
	if !ok {
		return webutil.ErrNotFound("No active editing session for product")
	}

	session.Content.SetAssets(session.Assets.List())
	product := session.Content.Product()
	if err := h.Repo.SaveSnapshot(r.Context(), &product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Product not found")
		}
		return fmt.Errorf("failed to save product %s: %w", productID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, product)
	return nil
}

func (h *ProductHandler) HandleCloseSession(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	h.Sessions.Close(productID)
	w.WriteHeader(http.StatusNoContent)
	return nil
}
