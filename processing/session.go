package processing

import (
	"log"
	"sync"

	"github.com/launchlab/productforge/assets"
	"github.com/launchlab/productforge/checklist"
	"github.com/launchlab/productforge/content"
	"github.com/launchlab/productforge/generation"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/storage"
)

// EditingSession bundles the collaborators that share one product's lifetime:
// the content model, the asset lifecycle, the checklist gate, and the
// generation orchestrator. The session owns the product exclusively until it
// is saved or closed.
type EditingSession struct {
	ProductID string
	Content   *content.Manager
	Assets    *assets.Manager
	Gate      *checklist.Gate
	Generator *generation.Orchestrator
}

// SessionRegistry tracks the active editing sessions, one per product.
type SessionRegistry struct {
	mu              sync.Mutex
	sessions        map[string]*EditingSession
	client          generation.Client
	storer          storage.AssetStorer
	renderBaseURL   string
	pricingDisabled bool
}

func NewSessionRegistry(client generation.Client, storer storage.AssetStorer, renderBaseURL string, pricingDisabled bool) *SessionRegistry {
	return &SessionRegistry{
		sessions:        make(map[string]*EditingSession),
		client:          client,
		storer:          storer,
		renderBaseURL:   renderBaseURL,
		pricingDisabled: pricingDisabled,
	}
}

// Open returns the session for the product, creating one if none is active.
// An already-open session keeps its in-memory model; the passed product is
// only used when the session is new.
func (r *SessionRegistry) Open(product *models.Product) *EditingSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[product.ID]; ok {
		return session
	}

	contentMgr := content.NewManager(product)
	gate := checklist.NewGate(r.pricingDisabled)
	if product.PricePoint != "" {
		gate.MarkPricingSet()
	}
	session := &EditingSession{
		ProductID: product.ID,
		Content:   contentMgr,
		Assets:    assets.NewManager(product.ID, r.storer, r.renderBaseURL),
		Gate:      gate,
		Generator: generation.NewOrchestrator(r.client, contentMgr, gate),
	}
	r.sessions[product.ID] = session
	log.Printf("INFO (SessionRegistry): Opened editing session for product %s", product.ID)
	return session
}

// Get returns the active session for a product, if any.
func (r *SessionRegistry) Get(productID string) (*EditingSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[productID]
	return session, ok
}

// Close tears down a product's session, clearing its unsaved assets.
func (r *SessionRegistry) Close(productID string) {
	r.mu.Lock()
	session, ok := r.sessions[productID]
	delete(r.sessions, productID)
	r.mu.Unlock()

	if ok {
		session.Assets.Clear()
		log.Printf("INFO (SessionRegistry): Closed editing session for product %s", productID)
	}
}
