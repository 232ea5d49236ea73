package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/launchlab/productforge/models"
	"github.com/launchlab/productforge/storage"
)

const testProductID = "6f1b0a1e-1111-4a6b-9d3e-000000000004"

// fakeStorer is an in-memory AssetStorer with switchable failure modes.
type fakeStorer struct {
	failStore  bool
	failDelete bool
	stored     map[string][]byte
	deleted    []string
}

func newFakeStorer() *fakeStorer {
	return &fakeStorer{stored: make(map[string][]byte)}
}

func (f *fakeStorer) Store(_ context.Context, productID, assetID, fileName string, content []byte, _ string) (*storage.StoredObject, error) {
	if f.failStore {
		return nil, errors.New("storage unavailable")
	}
	backendID := "db-" + assetID
	f.stored[backendID] = content
	return &storage.StoredObject{
		ID:           backendID,
		PublicURL:    fmt.Sprintf("https://cdn.example/%s/%s", productID, fileName),
		ThumbnailURL: fmt.Sprintf("https://cdn.example/%s/thumb-%s", productID, fileName),
		StoragePath:  productID + "/" + assetID,
	}, nil
}

func (f *fakeStorer) Delete(_ context.Context, backendID string) error {
	if f.failDelete {
		return errors.New("storage refused delete")
	}
	delete(f.stored, backendID)
	f.deleted = append(f.deleted, backendID)
	return nil
}

func newTestManager(storer storage.AssetStorer) *Manager {
	return NewManager(testProductID, storer, "http://render.local")
}

func TestCreateFromUploadSuccessIsSaved(t *testing.T) {
	storer := newFakeStorer()
	m := newTestManager(storer)

	asset, err := m.CreateFromUpload(context.Background(), "cover.png", models.AssetTypeImage, models.AssetCategoryCover, []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if asset.Status != models.AssetStatusSaved {
		t.Fatalf("status = %s, want %s", asset.Status, models.AssetStatusSaved)
	}
	if asset.DBID == "" {
		t.Fatal("saved asset must carry a backend id")
	}
	if !strings.HasPrefix(asset.URL, "https://cdn.example/") {
		t.Fatalf("saved asset URL = %q, want backend URL", asset.URL)
	}
	// Durable assets do not retain a local copy.
	if _, _, ok := m.LocalContent(asset.ID); ok {
		t.Fatal("saved asset still holds retained local content")
	}
}

// A failed backend upload degrades the asset instead of dropping it: locally
// viewable, retryable, and never presented as durable.
func TestCreateFromUploadFailureDegradesToUploaded(t *testing.T) {
	storer := newFakeStorer()
	storer.failStore = true
	m := newTestManager(storer)

	asset, err := m.CreateFromUpload(context.Background(), "cover.png", models.AssetTypeImage, models.AssetCategoryCover, []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("degraded upload must not error: %v", err)
	}

	if asset.Status != models.AssetStatusUploaded {
		t.Fatalf("status = %s, want %s", asset.Status, models.AssetStatusUploaded)
	}
	if asset.DBID != "" {
		t.Fatalf("degraded asset must not carry a backend id, got %q", asset.DBID)
	}
	wantURL := fmt.Sprintf("/api/products/%s/assets/%s/preview", testProductID, asset.ID)
	if asset.URL != wantURL {
		t.Fatalf("preview URL = %q, want %q", asset.URL, wantURL)
	}

	content, contentType, ok := m.LocalContent(asset.ID)
	if !ok || string(content) != "png-bytes" || contentType != "image/png" {
		t.Fatalf("retained content missing or wrong: ok=%v content=%q type=%q", ok, content, contentType)
	}

	// Retry once storage is healthy: the save rewrites every URL to the
	// backend's values and drops the local copy.
	storer.failStore = false
	saved, err := m.SaveToStorage(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("retry save failed: %v", err)
	}
	if saved.Status != models.AssetStatusSaved || saved.DBID == "" {
		t.Fatalf("retried asset not saved: %+v", saved)
	}
	if strings.Contains(saved.URL, "/preview") {
		t.Fatalf("local preview URL leaked into saved state: %q", saved.URL)
	}
	if _, _, ok := m.LocalContent(asset.ID); ok {
		t.Fatal("local content retained after successful save")
	}
}

// Saved is terminal short of deletion: saving again is a guarded no-op.
func TestSaveToStorageIsOneWay(t *testing.T) {
	storer := newFakeStorer()
	m := newTestManager(storer)

	asset, err := m.CreateFromUpload(context.Background(), "a.png", models.AssetTypeImage, models.AssetCategoryUploaded, []byte("x"), "image/png")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	before, _ := m.Get(asset.ID)
	if _, err := m.SaveToStorage(context.Background(), asset.ID); !errors.Is(err, ErrAlreadySaved) {
		t.Fatalf("second save error = %v, want ErrAlreadySaved", err)
	}
	after, _ := m.Get(asset.ID)
	if before != after {
		t.Fatalf("guarded re-save mutated the asset: %+v vs %+v", before, after)
	}
}

func TestSaveSelectedCountsOnlySuccesses(t *testing.T) {
	storer := newFakeStorer()
	storer.failStore = true
	m := newTestManager(storer)

	// Two degraded uploads plus one unselected.
	a, _ := m.CreateFromUpload(context.Background(), "a.png", models.AssetTypeImage, models.AssetCategoryUploaded, []byte("a"), "image/png")
	b, _ := m.CreateFromUpload(context.Background(), "b.png", models.AssetTypeImage, models.AssetCategoryUploaded, []byte("b"), "image/png")
	c, _ := m.CreateFromUpload(context.Background(), "c.png", models.AssetTypeImage, models.AssetCategoryUploaded, []byte("c"), "image/png")

	if err := m.SetSelected(a.ID, true); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if err := m.SetSelected(b.ID, true); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	storer.failStore = false
	saved := m.SaveSelected(context.Background())
	if saved != 2 {
		t.Fatalf("saved = %d, want 2", saved)
	}

	unselected, _ := m.Get(c.ID)
	if unselected.Status != models.AssetStatusUploaded {
		t.Fatalf("unselected asset was saved: %+v", unselected)
	}
}

func TestGeneratedAssetEntersLifecycleAtUploaded(t *testing.T) {
	m := newTestManager(newFakeStorer())

	asset := m.CreateFromGeneration("a calm lighthouse at dawn", models.AssetCategoryCover)
	if asset.Status != models.AssetStatusUploaded {
		t.Fatalf("status = %s, want %s", asset.Status, models.AssetStatusUploaded)
	}
	if !strings.Contains(asset.FullURL, "size=1024") || !strings.Contains(asset.ThumbnailURL, "size=256") {
		t.Fatalf("render URLs wrong: full=%q thumb=%q", asset.FullURL, asset.ThumbnailURL)
	}
	if asset.Prompt != "a calm lighthouse at dawn" {
		t.Fatalf("prompt not recorded: %q", asset.Prompt)
	}
}

// Deletion is pessimistic: when a backend record exists, a failed storage
// delete keeps the asset.
func TestDeleteAssetKeepsAssetWhenStorageRefuses(t *testing.T) {
	storer := newFakeStorer()
	m := newTestManager(storer)

	asset, _ := m.CreateFromUpload(context.Background(), "a.png", models.AssetTypeImage, models.AssetCategoryUploaded, []byte("a"), "image/png")

	storer.failDelete = true
	if err := m.DeleteAsset(context.Background(), asset.ID); err == nil {
		t.Fatal("expected delete to fail when storage refuses")
	}
	if _, ok := m.Get(asset.ID); !ok {
		t.Fatal("asset removed locally despite failed backend delete")
	}

	storer.failDelete = false
	if err := m.DeleteAsset(context.Background(), asset.ID); err != nil {
		t.Fatalf("delete failed after storage recovered: %v", err)
	}
	if _, ok := m.Get(asset.ID); ok {
		t.Fatal("asset still present after successful delete")
	}
}

func TestDeleteAssetWithoutBackendRecordSkipsStorage(t *testing.T) {
	storer := newFakeStorer()
	storer.failStore = true
	storer.failDelete = true
	m := newTestManager(storer)

	// Degraded upload: no backend record, so delete must succeed locally even
	// with a broken storage backend.
	asset, _ := m.CreateFromUpload(context.Background(), "a.png", models.AssetTypeImage, models.AssetCategoryUploaded, []byte("a"), "image/png")
	if err := m.DeleteAsset(context.Background(), asset.ID); err != nil {
		t.Fatalf("delete of non-durable asset failed: %v", err)
	}
}

func TestReadyCountAndListOrder(t *testing.T) {
	storer := newFakeStorer()
	m := newTestManager(storer)

	first, _ := m.CreateFromUpload(context.Background(), "a.png", models.AssetTypeImage, models.AssetCategoryUploaded, []byte("a"), "image/png")
	second := m.CreateFromGeneration("prompt", models.AssetCategoryIllustration)

	if got := m.ReadyCount(); got != 2 {
		t.Fatalf("ReadyCount = %d, want 2", got)
	}

	list := m.List()
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("list not in creation order: %+v", list)
	}
}

func TestSaveToStorageUnknownAsset(t *testing.T) {
	m := newTestManager(newFakeStorer())
	if _, err := m.SaveToStorage(context.Background(), "missing"); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("error = %v, want ErrAssetNotFound", err)
	}
}
