package routehandlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/importer"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/processing"
	"github.com/launchlab/productforge/webutil"
)

type ContentHandler struct {
	Repo     *datastore.ProductRepository
	Sessions *processing.SessionRegistry
	Importer *importer.Importer
}

func NewContentHandler(repo *datastore.ProductRepository, sessions *processing.SessionRegistry, imp *importer.Importer) *ContentHandler {
	return &ContentHandler{Repo: repo, Sessions: sessions, Importer: imp}
}

type importChapterRequest struct {
	ChapterID string `json:"chapter_id"`
	HTML      string `json:"html"`
	SourceURL string `json:"source_url"`
}

// Seeds a chapter's content from outside HTML: sanitize, extract the readable
// text, and merge it into the chapter the same way generated content merges.
func (h *ContentHandler) HandleImportChapter(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	var req importChapterRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.ChapterID == "" {
		return webutil.ErrBadRequest("chapter_id is required")
	}
	if req.HTML == "" {
		return webutil.ErrBadRequest("html is required")
	}

	baseURL, err := url.Parse(req.SourceURL)
	if err != nil || req.SourceURL == "" {
		// Pasted content has no origin; extraction only needs a placeholder.
		baseURL, _ = url.Parse("https://import.local/")
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	imported, err := h.Importer.FromHTML(req.HTML, baseURL)
	if err != nil {
		return webutil.ErrUnprocessableEntity("Could not extract content from the provided HTML: " + err.Error())
	}

	applied := session.Content.ApplyChapterContent(req.ChapterID, models.ChapterContent{
		Content:   imported.Text,
		WordCount: imported.WordCount,
	})
	if !applied {
		return webutil.ErrNotFound("Chapter not found in outline")
	}

	if session.Content.AllChaptersComplete() {
		session.Gate.MarkContentComplete()
	}

	chapter, _ := session.Content.FindChapter(req.ChapterID)
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"chapter":         chapter,
		"extracted_title": imported.ExtractedTitle,
		"word_count":      imported.WordCount,
	})
	return nil
}
