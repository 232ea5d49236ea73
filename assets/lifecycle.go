package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/storage"
)

var (
	// ErrAlreadySaved signals the no-op guard on saving a durably stored
	// asset. Callers treat it as a skip, not a failure.
	ErrAlreadySaved = errors.New("asset is already saved")
	// ErrAssetNotFound signals an unknown asset id.
	ErrAssetNotFound = errors.New("asset not found")
)

const generatedImageFetchTimeout = 30 * time.Second

// Manager tracks every media item of one product through its lifecycle.
// Transitions only ever move toward saved; a saved asset never returns to an
// earlier state. Deletion is pessimistic: when a backend record exists, the
// storage delete must succeed before local removal.
type Manager struct {
	mu            sync.Mutex
	productID     string
	storer        storage.AssetStorer
	renderBaseURL string
	httpClient    *http.Client

	order  []string
	assets map[string]*models.Asset
	// Retained upload bytes for assets that are not yet durably stored, so a
	// degraded upload stays locally viewable and retryable.
	localContent map[string][]byte
	contentTypes map[string]string
}

// NewManager creates a lifecycle manager for one product's editing session.
// renderBaseURL is the remote image-rendering service used for AI-generated
// images.
func NewManager(productID string, storer storage.AssetStorer, renderBaseURL string) *Manager {
	return &Manager{
		productID:     productID,
		storer:        storer,
		renderBaseURL: renderBaseURL,
		httpClient:    &http.Client{Timeout: generatedImageFetchTimeout},
		assets:        make(map[string]*models.Asset),
		localContent:  make(map[string][]byte),
		contentTypes:  make(map[string]string),
	}
}

// CreateFromUpload registers a new asset from a local file and immediately
// attempts the upload. On success the asset is saved with a backend id and
// backend URLs. On failure it degrades to uploaded with a locally-scoped
// preview URL; the content is retained so the user can retry the save.
func (m *Manager) CreateFromUpload(ctx context.Context, name string, assetType models.AssetType, category models.AssetCategory, content []byte, contentType string) (models.Asset, error) {
	asset := &models.Asset{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     assetType,
		Status:   models.AssetStatusPending,
		Category: category,
	}

	m.mu.Lock()
	m.assets[asset.ID] = asset
	m.order = append(m.order, asset.ID)
	m.localContent[asset.ID] = content
	m.contentTypes[asset.ID] = contentType
	m.mu.Unlock()

	stored, err := m.storer.Store(ctx, m.productID, asset.ID, name, content, contentType)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// Degraded: locally viewable, not durable. Never silently dropped.
		log.Printf("WARN (AssetManager): Upload failed for asset %s (%s), keeping local preview: %v", asset.ID, name, err)
		asset.Status = models.AssetStatusUploaded
		asset.URL = m.localPreviewURL(asset.ID)
		asset.ThumbnailURL = asset.URL
		asset.FullURL = asset.URL
		return *asset, nil
	}

	m.markSavedLocked(asset, stored)
	log.Printf("INFO (AssetManager): Uploaded and saved asset %s (%s) as %s", asset.ID, name, stored.ID)
	return *asset, nil
}

// CreateFromGeneration registers a new AI-generated image asset. Generation is
// synchronous URL construction against the rendering service; the image itself
// is fetched lazily by whoever dereferences the URL, so the asset enters the
// lifecycle at uploaded, not generating.
func (m *Manager) CreateFromGeneration(prompt string, category models.AssetCategory) models.Asset {
	id := uuid.NewString()
	full := m.renderURL(prompt, 1024)
	thumb := m.renderURL(prompt, 256)

	asset := &models.Asset{
		ID:           id,
		Name:         generatedAssetName(category),
		Type:         models.AssetTypeImage,
		Status:       models.AssetStatusUploaded,
		Category:     category,
		Prompt:       prompt,
		URL:          full,
		FullURL:      full,
		ThumbnailURL: thumb,
	}

	m.mu.Lock()
	m.assets[id] = asset
	m.order = append(m.order, id)
	m.mu.Unlock()

	log.Printf("INFO (AssetManager): Created generated asset %s (category: %s)", id, category)
	return *asset
}

// SaveToStorage persists a not-yet-saved asset to the storage backend. On
// success the status becomes saved, the backend id is recorded, and every URL
// is rewritten to the backend's values: local blob URLs are not durable and
// must not leak into saved state.
func (m *Manager) SaveToStorage(ctx context.Context, id string) (models.Asset, error) {
	m.mu.Lock()
	asset, ok := m.assets[id]
	if !ok {
		m.mu.Unlock()
		return models.Asset{}, ErrAssetNotFound
	}
	if asset.Status == models.AssetStatusSaved {
		m.mu.Unlock()
		return *asset, ErrAlreadySaved
	}
	content := m.localContent[id]
	contentType := m.contentTypes[id]
	name := asset.Name
	fetchURL := asset.FullURL
	m.mu.Unlock()

	if content == nil {
		// Generated asset: materialize the image from the rendering URL.
		fetched, fetchedType, err := m.fetchContent(ctx, fetchURL)
		if err != nil {
			return models.Asset{}, fmt.Errorf("failed to fetch generated image for asset %s: %w", id, err)
		}
		content = fetched
		if contentType == "" {
			contentType = fetchedType
		}
	}

	stored, err := m.storer.Store(ctx, m.productID, id, name, content, contentType)
	if err != nil {
		return models.Asset{}, fmt.Errorf("failed to save asset %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	asset, ok = m.assets[id]
	if !ok {
		return models.Asset{}, ErrAssetNotFound
	}
	m.markSavedLocked(asset, stored)
	log.Printf("INFO (AssetManager): Saved asset %s as %s", id, stored.ID)
	return *asset, nil
}

// SaveSelected saves every selected, not-yet-saved asset. A failure on one
// asset does not abort the batch; the caller receives the success count.
func (m *Manager) SaveSelected(ctx context.Context) int {
	m.mu.Lock()
	var pending []string
	for _, id := range m.order {
		a := m.assets[id]
		if a.IsSelected && a.Status != models.AssetStatusSaved {
			pending = append(pending, id)
		}
	}
	m.mu.Unlock()

	saved := 0
	for _, id := range pending {
		if _, err := m.SaveToStorage(ctx, id); err != nil {
			if errors.Is(err, ErrAlreadySaved) {
				continue
			}
			log.Printf("WARN (AssetManager): Batch save failed for asset %s: %v", id, err)
			continue
		}
		saved++
	}
	return saved
}

// DeleteAsset removes an asset. When a backend record exists the storage
// delete must succeed first; on failure the asset is kept and the error
// surfaced. Deletion is not optimistic.
func (m *Manager) DeleteAsset(ctx context.Context, id string) error {
	m.mu.Lock()
	asset, ok := m.assets[id]
	if !ok {
		m.mu.Unlock()
		return ErrAssetNotFound
	}
	dbID := asset.DBID
	m.mu.Unlock()

	if dbID != "" {
		if err := m.storer.Delete(ctx, dbID); err != nil {
			return fmt.Errorf("failed to delete asset %s from storage: %w", id, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, id)
	delete(m.localContent, id)
	delete(m.contentTypes, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	log.Printf("INFO (AssetManager): Deleted asset %s", id)
	return nil
}

// SetSelected toggles the transient batch-save selection flag.
func (m *Manager) SetSelected(id string, selected bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	asset, ok := m.assets[id]
	if !ok {
		return ErrAssetNotFound
	}
	asset.IsSelected = selected
	return nil
}

// List returns the assets in creation order.
func (m *Manager) List() []models.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Asset, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.assets[id])
	}
	return out
}

// Get returns a single asset by id.
func (m *Manager) Get(id string) (models.Asset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	asset, ok := m.assets[id]
	if !ok {
		return models.Asset{}, false
	}
	return *asset, true
}

// ReadyCount returns the number of assets that are viewable (saved or
// locally viewable uploaded), feeding the checklist's assets flag.
func (m *Manager) ReadyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, a := range m.assets {
		if a.Status == models.AssetStatusSaved || a.Status == models.AssetStatusUploaded {
			count++
		}
	}
	return count
}

// LocalContent returns the retained bytes for a not-yet-durable asset, for
// serving its locally-scoped preview URL.
func (m *Manager) LocalContent(id string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.localContent[id]
	if !ok {
		return nil, "", false
	}
	return content, m.contentTypes[id], true
}

// Clear drops every asset, used when the editing session switches or closes
// its product.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.assets = make(map[string]*models.Asset)
	m.localContent = make(map[string][]byte)
	m.contentTypes = make(map[string]string)
}

// markSavedLocked applies the saved transition. Caller holds the lock.
func (m *Manager) markSavedLocked(asset *models.Asset, stored *storage.StoredObject) {
	asset.Status = models.AssetStatusSaved
	asset.DBID = stored.ID
	asset.URL = stored.PublicURL
	asset.FullURL = stored.PublicURL
	asset.ThumbnailURL = stored.ThumbnailURL
	// Durable now; the retained local copy is no longer needed.
	delete(m.localContent, asset.ID)
	delete(m.contentTypes, asset.ID)
}

func (m *Manager) localPreviewURL(id string) string {
	return fmt.Sprintf("/api/products/%s/assets/%s/preview", m.productID, id)
}

func (m *Manager) renderURL(prompt string, size int) string {
	return fmt.Sprintf("%s/render?prompt=%s&size=%d", m.renderBaseURL, url.QueryEscape(prompt), size)
}

func (m *Manager) fetchContent(ctx context.Context, srcURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	return content, resp.Header.Get("Content-Type"), nil
}

func generatedAssetName(category models.AssetCategory) string {
	if category == "" {
		return "generated-image"
	}
	return "generated-" + string(category)
}
