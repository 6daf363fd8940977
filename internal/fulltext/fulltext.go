package fulltext

import (
	"context"
	"time"
)

// PartDocument is a part as stored in the full-text browse index. It is a
// denormalized projection maintained from catalog change events.
type PartDocument struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name"`
	BrandID      int64     `json:"brand_id"`
	BrandName    string    `json:"brand_name"`
	Price        float64   `json:"price"`
	Quality      string    `json:"quality"`
	Availability string    `json:"availability"`
	ImageURL     string    `json:"image_url"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sort options for browse results.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// IsValidSort reports whether sort names a supported sort option.
func IsValidSort(sort string) bool {
	switch sort {
	case SortRelevance, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// BrowseQuery holds all parameters of a catalog browse request.
type BrowseQuery struct {
	Query      string   `json:"query"`
	CategoryID *int64   `json:"category_id,omitempty"`
	BrandID    *int64   `json:"brand_id,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	SortBy     string   `json:"sort_by"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
}

// BrowseResult is the paginated browse response.
type BrowseResult struct {
	Parts   []PartDocument `json:"parts"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	TookMs  int64          `json:"took_ms"`
}

// Engine indexes and searches part documents. Implementations back onto
// Elasticsearch or in-memory storage.
type Engine interface {
	// Index adds or updates a single part in the browse index.
	Index(ctx context.Context, doc *PartDocument) error

	// Delete removes a part from the browse index by its ID.
	Delete(ctx context.Context, id int64) error

	// Search executes a browse query and returns matching parts.
	Search(ctx context.Context, query *BrowseQuery) (*BrowseResult, error)

	// BulkIndex adds or updates multiple parts in the browse index.
	BulkIndex(ctx context.Context, docs []PartDocument) error
}
