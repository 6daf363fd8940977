package domain

// Fallback types attached to responses resolved outside the primary index.
const (
	FallbackReferenceScan = "reference-scan"
	FallbackCategoryName  = "gamme-name"
)

// SearchFilters narrows a result set to specific brands or categories.
// Filters are applied to the resolved identifier set before enrichment.
type SearchFilters struct {
	BrandIDs    []int64 `json:"brand_ids,omitempty"`
	CategoryIDs []int64 `json:"category_ids,omitempty"`
}

// Empty reports whether no filter values are set.
func (f SearchFilters) Empty() bool {
	return len(f.BrandIDs) == 0 && len(f.CategoryIDs) == 0
}

// SearchParams holds all parameters for a part search request. Equivalence
// matches are part of the result set unless ExcludeEquivalences is set, so
// the zero value searches the full cross-reference graph.
type SearchParams struct {
	Query               string        `json:"query"`
	Filters             SearchFilters `json:"filters"`
	Page                int           `json:"page"`
	Limit               int           `json:"limit"`
	ExcludeEquivalences bool          `json:"exclude_equivalences"`
}

// ResultItem is the assembled, enriched view of a part in a search result.
// ResolutionKind and Score order the set and are stripped from the response.
type ResultItem struct {
	PartID       int64   `json:"part_id"`
	Reference    string  `json:"reference"`
	Name         string  `json:"name"`
	BrandID      *int64  `json:"brand_id,omitempty"`
	BrandName    string  `json:"brand_name,omitempty"`
	CategoryID   *int64  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	Price        float64 `json:"price"`
	Deposit      float64 `json:"deposit"`
	QuantitySale float64 `json:"quantity_sale"`
	ImageURL     string  `json:"image_url"`
	Quality      string  `json:"quality"`
	Availability string  `json:"availability"`

	ResolutionKind int     `json:"-"`
	Score          float64 `json:"-"`
}

// FacetValue is a single refinement option with its occurrence count.
type FacetValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facet is an aggregated count breakdown over a result set.
type Facet struct {
	Field  string       `json:"field"`
	Label  string       `json:"label"`
	Values []FacetValue `json:"values"`
}

// SearchData is the payload of a successful search.
type SearchData struct {
	Items           []ResultItem `json:"items"`
	Total           int          `json:"total"`
	Page            int          `json:"page"`
	Limit           int          `json:"limit"`
	Pages           int          `json:"pages"`
	ExecutionTimeMs int64        `json:"execution_time_ms"`
	Facets          []Facet      `json:"facets"`
	Cached          bool         `json:"cached"`
	FallbackType    string       `json:"fallback_type,omitempty"`
}

// SearchResponse is the uniform response envelope. Error is populated only
// when Success is false, and Data is never returned alongside an error.
type SearchResponse struct {
	Success bool        `json:"success"`
	Data    *SearchData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
