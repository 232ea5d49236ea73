package models

// ExportChecklist holds the five independent readiness flags gating export.
// Each flag is set by its own upstream event and is never auto-cleared once
// true within a session.
type ExportChecklist struct {
	ContentComplete   bool `json:"contentComplete"`
	StructureComplete bool `json:"structureComplete"`
	AssetsReady       bool `json:"assetsReady"`
	PricingSet        bool `json:"pricingSet"`
	PreviewReviewed   bool `json:"previewReviewed"`
}
