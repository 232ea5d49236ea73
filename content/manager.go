package content

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/launchlab/productforge/models"
)

// Manager owns the nested document tree of one editing session and applies
// generation results to it. Outline and structure are only ever replaced
// wholesale by a fresh generation pass; chapter content is merged field by
// field so sibling data survives. Every mutation is atomic with respect to
// readers.
type Manager struct {
	mu      sync.Mutex
	product *models.Product
}

// NewManager wraps a product for the duration of an editing session. The
// manager becomes the exclusive owner of the product's RawAnalysis until the
// next wholesale save.
func NewManager(product *models.Product) *Manager {
	return &Manager{product: product}
}

// Product returns a deep-enough snapshot of the current product for rendering
// and persistence. Callers must not mutate the returned trees.
func (m *Manager) Product() models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.product
}

// ApplyOutline replaces the entire outline wholesale. This is the only
// wholesale-replace path for the chapter tree, used when an outline is
// (re)generated from scratch. Chapter numbers are normalized to be contiguous,
// 1-based, and matching position; chapters without ids get one assigned.
func (m *Manager) ApplyOutline(outline models.ContentOutline) {
	for i := range outline.Chapters {
		outline.Chapters[i].Number = i + 1
		if outline.Chapters[i].ID == "" {
			outline.Chapters[i].ID = uuid.NewString()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.product.RawAnalysis.Outline = &outline
}

// ApplyChapterContent locates the chapter by id and merges only the
// generated-content fields into it, leaving title, description, and key
// points untouched. A missing chapter id is a no-op, not an error: the
// outline may have been regenerated while this result was in flight, and a
// late merge against a discarded chapter is simply dropped. Returns whether a
// chapter was updated.
//
// The merge is copy-on-write: a fresh chapters slice replaces the outline
// pointer in one step, so snapshots handed out by Product earlier never
// observe a partially merged chapter.
func (m *Manager) ApplyChapterContent(chapterID string, fields models.ChapterContent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	outline := m.product.RawAnalysis.Outline
	if outline == nil {
		return false
	}
	for i := range outline.Chapters {
		if outline.Chapters[i].ID != chapterID {
			continue
		}
		next := *outline
		next.Chapters = append([]models.Chapter(nil), outline.Chapters...)
		ch := &next.Chapters[i]
		ch.Content = fields.Content
		ch.WordCount = fields.WordCount
		if ch.WordCount == 0 && fields.Content != "" {
			ch.WordCount = len(strings.Fields(fields.Content))
		}
		ch.ReadingTimeMinutes = fields.ReadingTimeMinutes
		// Replaced, not appended, so re-merging the same result is idempotent.
		ch.KeyTakeaways = append([]string(nil), fields.KeyTakeaways...)
		m.product.RawAnalysis.Outline = &next
		return true
	}
	return false
}

// ApplyStructure replaces the entire structure wholesale, mirroring
// ApplyOutline. Parts and modules without ids get one assigned.
func (m *Manager) ApplyStructure(structure models.ProductStructure) {
	for i := range structure.Parts {
		if structure.Parts[i].ID == "" {
			structure.Parts[i].ID = uuid.NewString()
		}
		for j := range structure.Parts[i].Modules {
			if structure.Parts[i].Modules[j].ID == "" {
				structure.Parts[i].Modules[j].ID = uuid.NewString()
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.product.RawAnalysis.Structure = &structure
}

// Outline returns the current outline, or nil if none has been generated.
func (m *Manager) Outline() *models.ContentOutline {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.product.RawAnalysis.Outline == nil {
		return nil
	}
	outline := *m.product.RawAnalysis.Outline
	outline.Chapters = append([]models.Chapter(nil), m.product.RawAnalysis.Outline.Chapters...)
	return &outline
}

// Structure returns the current structure, or nil if none has been generated.
func (m *Manager) Structure() *models.ProductStructure {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.product.RawAnalysis.Structure == nil {
		return nil
	}
	structure := *m.product.RawAnalysis.Structure
	structure.Parts = append([]models.Part(nil), m.product.RawAnalysis.Structure.Parts...)
	return &structure
}

// FindChapter returns a copy of the chapter with the given id.
func (m *Manager) FindChapter(chapterID string) (models.Chapter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outline := m.product.RawAnalysis.Outline
	if outline == nil {
		return models.Chapter{}, false
	}
	for _, ch := range outline.Chapters {
		if ch.ID == chapterID {
			return ch, true
		}
	}
	return models.Chapter{}, false
}

// ChapterCompletionRatio returns completed chapters over total chapters, or 0
// for an empty or absent outline.
func (m *Manager) ChapterCompletionRatio() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	outline := m.product.RawAnalysis.Outline
	if outline == nil || len(outline.Chapters) == 0 {
		return 0
	}
	complete := 0
	for _, ch := range outline.Chapters {
		if ch.IsComplete() {
			complete++
		}
	}
	return float64(complete) / float64(len(outline.Chapters))
}

// AllChaptersComplete reports whether every chapter in the outline has
// generated content. False when no outline exists.
func (m *Manager) AllChaptersComplete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	outline := m.product.RawAnalysis.Outline
	if outline == nil || len(outline.Chapters) == 0 {
		return false
	}
	for _, ch := range outline.Chapters {
		if !ch.IsComplete() {
			return false
		}
	}
	return true
}

// UpdateDetails overwrites the editable product details. These fields belong
// to the user, never to generation, so they are always written together.
func (m *Manager) UpdateDetails(name, tagline, description, notes, pricePoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.product.Name = name
	m.product.Tagline = tagline
	m.product.Description = description
	m.product.Notes = notes
	m.product.PricePoint = pricePoint
}

// SetAssets stores the current asset list snapshot on the product so the next
// wholesale save persists it.
func (m *Manager) SetAssets(assets []models.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.product.RawAnalysis.Assets = assets
}

// SetStatus updates the product lifecycle status.
func (m *Manager) SetStatus(status models.ProductStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.product.Status = status
}
