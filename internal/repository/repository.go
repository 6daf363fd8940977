package repository

import (
	"context"

	"github.com/clutchparts/search-service/internal/domain"
)

// Catalog defines the read-model lookups the search pipeline depends on.
// All methods are read-only; the catalog is owned by another system.
type Catalog interface {
	// FindReferenceEntries looks up reference-index entries for any of the
	// given search tokens.
	FindReferenceEntries(ctx context.Context, tokens []string) ([]domain.ReferenceIndexEntry, error)

	// FindOemEntries looks up OEM cross-reference entries for any of the
	// given codes.
	FindOemEntries(ctx context.Context, codes []string) ([]domain.OemReferenceEntry, error)

	// FindPartsByIDs retrieves parts by identifier. Missing ids are skipped.
	FindPartsByIDs(ctx context.Context, ids []int64) ([]domain.Part, error)

	// FindPartsByReferenceSubstring scans visible parts whose raw reference
	// contains the pattern, case-insensitively, up to limit rows.
	FindPartsByReferenceSubstring(ctx context.Context, pattern string, limit int) ([]domain.Part, error)

	// FindCategoriesByName retrieves categories whose display name contains
	// the text, case-insensitively, primary categories first.
	FindCategoriesByName(ctx context.Context, text string, limit int) ([]domain.Category, error)

	// FindCategoriesByIDs retrieves categories by identifier.
	FindCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.Category, error)

	// FindPartsByCategoryIDs retrieves visible parts under the given
	// categories, up to limit rows.
	FindPartsByCategoryIDs(ctx context.Context, ids []int64, limit int) ([]domain.Part, error)

	// FindAvailablePrices retrieves available price records for the parts.
	FindAvailablePrices(ctx context.Context, partIDs []int64) ([]domain.PriceRecord, error)

	// FindBrands retrieves brands by identifier.
	FindBrands(ctx context.Context, ids []int64) ([]domain.Brand, error)

	// FindVisibleImages retrieves the first visible image per part.
	FindVisibleImages(ctx context.Context, partIDs []int64) ([]domain.Image, error)
}
