package domain

// OriginMarker classifies a brand's origin quality. It is populated at
// data-load time rather than re-derived from brand names per request.
type OriginMarker string

const (
	OriginOEM         OriginMarker = "oem"
	OriginAftermarket OriginMarker = "aftermarket"
	OriginUnknown     OriginMarker = "unknown"
)

// Part is a catalog item. Parts are owned by the backing catalog store and
// read-only from this service's perspective.
type Part struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Reference    string  `json:"reference"`
	CategoryID   *int64  `json:"category_id,omitempty"`
	BrandID      *int64  `json:"brand_id,omitempty"`
	QuantitySale float64 `json:"quantity_sale"`
	Display      bool    `json:"display"`
}

// Brand identifies a parts manufacturer.
type Brand struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Origin OriginMarker `json:"origin"`
}

// Category levels. Primary categories are preferred by the category-name
// fallback over obscure sub-categories.
const (
	CategoryLevelPrimary = 1
)

// Category is a product family ("gamme") grouping parts.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Alias string `json:"alias"`
	Level int    `json:"level"`
}

// IsPrimary reports whether the category is a primary (top-level) family.
func (c Category) IsPrimary() bool {
	return c.Level == CategoryLevelPrimary
}

// PriceRecord belongs to exactly one (part, brand) pair. Only records flagged
// available in the store are ever loaded.
type PriceRecord struct {
	PartID    int64   `json:"part_id"`
	BrandID   int64   `json:"brand_id"`
	SalePrice float64 `json:"sale_price"`
	Deposit   float64 `json:"deposit"`
}

// Image is a product photo. Only the first visible image per part is used.
type Image struct {
	PartID   int64  `json:"part_id"`
	Filename string `json:"filename"`
}

// Resolution kinds, ordered by match confidence. Lower is stronger evidence.
const (
	KindDirectReference   = 0  // exact catalog reference
	KindManufacturerCross = 1  // manufacturer cross-reference
	KindOemViaMaker       = 2  // OEM code resolved via manufacturer
	KindCrossEquivalence  = 3  // cross-equivalence
	KindSubstitute        = 4  // substitute part
	KindOemCode           = 50 // OEM code with no primary index entry
)

// ReferenceIndexEntry maps a normalized search token to a part with a
// resolution kind. Several entries may target the same part; only the best
// (lowest) kind per part is kept.
type ReferenceIndexEntry struct {
	Token  string `json:"token"`
	PartID int64  `json:"part_id"`
	Kind   int    `json:"kind"`
}

// OemReferenceEntry maps an OEM code to a part.
type OemReferenceEntry struct {
	Code   string `json:"code"`
	PartID int64  `json:"part_id"`
}
