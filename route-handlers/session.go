package routehandlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/processing"
	"github.com/launchlab/productforge/webutil"
)

// productIDFromRequest validates the {id} path parameter.
func productIDFromRequest(r *http.Request, param string) (string, error) {
	id := chi.URLParam(r, param)
	if _, err := uuid.Parse(id); err != nil {
		return "", webutil.ErrBadRequest("Invalid product ID format")
	}
	return id, nil
}

// openSession returns the product's active editing session, loading the
// product from the datastore and opening a fresh session when none exists.
func openSession(r *http.Request, repo *datastore.ProductRepository, sessions *processing.SessionRegistry, productID string) (*processing.EditingSession, error) {
	if session, ok := sessions.Get(productID); ok {
		return session, nil
	}

	product, err := repo.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, webutil.ErrNotFound("Product not found")
		}
		return nil, fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	return sessions.Open(product), nil
}
