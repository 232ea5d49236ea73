package routehandlers

import (
	"net/http"

	"github.com/launchlab/productforge/checklist"
	"github.com/launchlab/productforge/datastore"
	"github.com/launchlab/productforge/processing"
	"github.com/launchlab/productforge/webutil"
)

type ChecklistHandler struct {
	Repo     *datastore.ProductRepository
	Sessions *processing.SessionRegistry
}

func NewChecklistHandler(repo *datastore.ProductRepository, sessions *processing.SessionRegistry) *ChecklistHandler {
	return &ChecklistHandler{Repo: repo, Sessions: sessions}
}

func (h *ChecklistHandler) HandleGetChecklist(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	flags := session.Gate.Flags()
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"checklist":          flags,
		"ready":              checklist.IsExportReady(flags),
		"chapter_completion": session.Content.ChapterCompletionRatio(),
		"ready_assets":       session.Assets.ReadyCount(),
	})
	return nil
}

// Records the user's confirmation that the preview was reviewed. The flag
// never unsets afterward.
func (h *ChecklistHandler) HandlePreviewReviewed(w http.ResponseWriter, r *http.Request) error {
	productID, err := productIDFromRequest(r, "id")
	if err != nil {
		return err
	}

	session, err := openSession(r, h.Repo, h.Sessions, productID)
	if err != nil {
		return err
	}

	session.Gate.MarkPreviewReviewed()

	flags := session.Gate.Flags()
	webutil.RespondWithJSON(w, http.StatusOK, map[string]any{
		"checklist": flags,
		"ready":     checklist.IsExportReady(flags),
	})
	return nil
}
