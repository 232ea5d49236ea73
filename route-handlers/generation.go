package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/generation"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/processing"
	"github.com/launchlab/productforge/webutil"
)

type GenerationHandler struct {
	Repo     *datastore.ProductRepository
	Sessions *processing.SessionRegistry
}

func NewGenerationHandler(repo *datastore.ProductRepository, sessions *processing.SessionRegistry) *GenerationHandler {
	return &GenerationHandler{Repo: repo, Sessions: sessions}
}

type generateRequest struct {
	Intent    string `json:"intent"`
	ChapterID string `json:"chapter_id"`
}

type generateResponse struct {
	Product models.Product                                     `json:"product"`
	Intents map[models.GenerationIntent]generation.IntentState `json:"intents"`
}

// Runs one generation intent synchronously and returns the updated product.
// A second request for an intent already in flight is rejected with 409.
func (h *GenerationHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	var req generateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	intent, ok := models.IsValidGenerationIntent(req.Intent)
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid intent. Must be one of: %s, %s, %s, %s",
			models.IntentOutline, models.IntentStructure, models.IntentChapterContent, models.IntentAllChapters))
	}
	if intent == models.IntentChapterContent && req.ChapterID == "" {
		return webutil.ErrBadRequest("chapter_id is required for chapter-content generation")
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	if err := session.Generator.Run(r.Context(), intent, req.ChapterID); err != nil {
		var busy *generation.BusyError
		if errors.As(err, &busy) {
			return webutil.ErrConflictWrap(busy.Error(), err)
		}
		return fmt.Errorf("generation for product %s: %w", productID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, generateResponse{
		Product: session.Content.Product(),
		Intents: session.Generator.States(),
	})
	return nil
}

func (h *GenerationHandler) HandleGenerationStatus(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"intents":            session.Generator.States(),
		"chapter_completion": session.Content.ChapterCompletionRatio(),
	})
	return nil
}
