package models

import "time"

// ProductType discriminates the shape of a product. Content-shaped products
// (ebooks, guides) are built from a ContentOutline; software-shaped products
// (courses, tools, specs) are built from a ProductStructure. Downstream
// components switch exhaustively on this tag.
type ProductType string

const (
	ProductTypeContent  ProductType = "content"
	ProductTypeSoftware ProductType = "software"
)

// IsValidProductType returns the typed value for a raw string and whether it
// is a member of the closed set.
func IsValidProductType(s string) (ProductType, bool) {
	switch ProductType(s) {
	case ProductTypeContent, ProductTypeSoftware:
		return ProductType(s), true
	}
	return "", false
}

// ProductStatus is the coarse lifecycle of a product record.
type ProductStatus string

const (
	ProductStatusIdea      ProductStatus = "idea"
	ProductStatusBuilding  ProductStatus = "building"
	ProductStatusArchived  ProductStatus = "archived"
	ProductStatusCompleted ProductStatus = "completed"
)

func IsValidProductStatus(s string) (ProductStatus, bool) {
	switch ProductStatus(s) {
	case ProductStatusIdea, ProductStatusBuilding, ProductStatusArchived, ProductStatusCompleted:
		return ProductStatus(s), true
	}
	return "", false
}

// RawAnalysis holds the nested generated structures for a product. The backend
// record stores it as a single JSON document and it is always written
// wholesale, never patched.
type RawAnalysis struct {
	Outline           *ContentOutline   `json:"outline,omitempty"`
	Structure         *ProductStructure `json:"structure,omitempty"`
	Assets            []Asset           `json:"assets,omitempty"`
	TargetAudience    string            `json:"targetAudience,omitempty"`
	ProblemSolved     string            `json:"problemSolved,omitempty"`
	GeneratedFeatures []string          `json:"generatedFeatures,omitempty"`
}

// Product is the root aggregate. The editing session owns it exclusively until
// saved; the backend record is the long-lived owner.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Tagline     string        `json:"tagline,omitempty"`
	Description string        `json:"description,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	PricePoint  string        `json:"price_point,omitempty"`
	Type        ProductType   `json:"product_type"`
	Status      ProductStatus `json:"status"`
	RawAnalysis RawAnalysis   `json:"raw_analysis"`
	CreatedAt   time.Time     `json:"created_at"`
}
