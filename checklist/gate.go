package checklist

import (
	"sync"

	"github.com/launchlab/productforge/models"
)

// Gate tracks the five export-readiness flags for one editing session. Each
// flag is set by an independent upstream event and is never cleared once true:
// regenerating one piece must not silently revoke the user's prior
// confirmation of another.
type Gate struct {
	mu    sync.Mutex
	flags models.ExportChecklist
}

// NewGate creates a gate. When pricing is disabled system-wide the pricing
// flag starts, and stays, satisfied.
func NewGate(pricingDisabled bool) *Gate {
	g := &Gate{}
	if pricingDisabled {
		g.flags.PricingSet = true
	}
	return g
}

func (g *Gate) MarkContentComplete() {
	g.mu.Lock()
	g.flags.ContentComplete = true
	g.mu.Unlock()
}

func (g *Gate) MarkStructureComplete() {
	g.mu.Lock()
	g.flags.StructureComplete = true
	g.mu.Unlock()
}

func (g *Gate) MarkAssetsReady() {
	g.mu.Lock()
	g.flags.AssetsReady = true
	g.mu.Unlock()
}

func (g *Gate) MarkPricingSet() {
	g.mu.Lock()
	g.flags.PricingSet = true
	g.mu.Unlock()
}

func (g *Gate) MarkPreviewReviewed() {
	g.mu.Lock()
	g.flags.PreviewReviewed = true
	g.mu.Unlock()
}

// Flags returns a snapshot of the current checklist.
func (g *Gate) Flags() models.ExportChecklist {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flags
}

// Ready reports whether every flag is set.
func (g *Gate) Ready() bool {
	return IsExportReady(g.Flags())
}

// IsExportReady is the pure readiness function: the AND of all five flags.
func IsExportReady(c models.ExportChecklist) bool {
	return c.ContentComplete &&
		c.StructureComplete &&
		c.AssetsReady &&
		c.PricingSet &&
		c.PreviewReviewed
}
