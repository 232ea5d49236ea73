package models

// AssetType defines the set of allowed media types for an Asset.
type AssetType string

const (
	AssetTypeImage    AssetType = "image"
	AssetTypeDocument AssetType = "document"
	AssetTypeVideo    AssetType = "video"
	AssetTypeAudio    AssetType = "audio"
	AssetTypeOther    AssetType = "other"
)

// AssetStatus is the lifecycle state of an asset. Valid transitions:
//
//	pending    -> saved     (upload succeeds)
//	pending    -> uploaded  (upload fails; locally viewable, not durable)
//	uploaded   -> saved     (explicit save)
//	generating -> uploaded  (image ready)
//	any        -> removed   (delete)
//
// No transition ever leaves saved except removal.
type AssetStatus string

const (
	AssetStatusPending    AssetStatus = "pending"
	AssetStatusUploaded   AssetStatus = "uploaded"
	AssetStatusGenerating AssetStatus = "generating"
	AssetStatusError      AssetStatus = "error"
	AssetStatusSaved      AssetStatus = "saved"
)

type AssetCategory string

const (
	AssetCategoryCover        AssetCategory = "cover"
	AssetCategoryChapter      AssetCategory = "chapter"
	AssetCategoryIllustration AssetCategory = "illustration"
	AssetCategoryDiagram      AssetCategory = "diagram"
	AssetCategoryIcon         AssetCategory = "icon"
	AssetCategoryUploaded     AssetCategory = "uploaded"
)

func IsValidAssetCategory(s string) (AssetCategory, bool) {
	switch AssetCategory(s) {
	case AssetCategoryCover, AssetCategoryChapter, AssetCategoryIllustration,
		AssetCategoryDiagram, AssetCategoryIcon, AssetCategoryUploaded:
		return AssetCategory(s), true
	}
	return "", false
}

// Asset is one media item attached to a product. ID is client-assigned and
// stable for the session; DBID is assigned once persisted. An asset with
// Status saved always has a DBID, and an asset without a DBID is never
// durably stored.
type Asset struct {
	ID           string        `json:"id"`
	DBID         string        `json:"dbId,omitempty"`
	Name         string        `json:"name"`
	Type         AssetType     `json:"type"`
	Status       AssetStatus   `json:"status"`
	Category     AssetCategory `json:"category,omitempty"`
	Prompt       string        `json:"prompt,omitempty"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
	FullURL      string        `json:"fullUrl,omitempty"`
	URL          string        `json:"url,omitempty"`

	// IsSelected is transient, used only for batch-save selection.
	IsSelected bool `json:"isSelected,omitempty"`
}

// IsDurable reports whether the asset is persisted in backend storage.
func (a Asset) IsDurable() bool {
	return a.Status == AssetStatusSaved && a.DBID != ""
}
