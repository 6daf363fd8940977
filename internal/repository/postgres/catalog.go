package postgres

import (
	"context"
	"fmt"

	"github.com/clutchparts/search-service/internal/domain"
	"github.com/clutchparts/search-service/pkg/database"
)

// CatalogRepository implements repository.Catalog against the catalog
// read-model tables in PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// FindReferenceEntries looks up reference-index entries for any of the given
// search tokens.
func (r *CatalogRepository) FindReferenceEntries(ctx context.Context, tokens []string) ([]domain.ReferenceIndexEntry, error) {
	if len(tokens) == 0 {
		return []domain.ReferenceIndexEntry{}, nil
	}

	query := `
		SELECT token, part_id, kind
		FROM reference_index
		WHERE token = ANY($1)`

	rows, err := r.pool.Query(ctx, query, tokens)
	if err != nil {
		return nil, fmt.Errorf("find reference entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.ReferenceIndexEntry{}
	for rows.Next() {
		var e domain.ReferenceIndexEntry
		if err := rows.Scan(&e.Token, &e.PartID, &e.Kind); err != nil {
			return nil, fmt.Errorf("scan reference entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference entries: %w", err)
	}

	return entries, nil
}

// FindOemEntries looks up OEM cross-reference entries for any of the given codes.
func (r *CatalogRepository) FindOemEntries(ctx context.Context, codes []string) ([]domain.OemReferenceEntry, error) {
	if len(codes) == 0 {
		return []domain.OemReferenceEntry{}, nil
	}

	query := `
		SELECT code, part_id
		FROM oem_references
		WHERE code = ANY($1)`

	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("find oem entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.OemReferenceEntry{}
	for rows.Next() {
		var e domain.OemReferenceEntry
		if err := rows.Scan(&e.Code, &e.PartID); err != nil {
			return nil, fmt.Errorf("scan oem entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate oem entries: %w", err)
	}

	return entries, nil
}

const partColumns = `id, name, reference, category_id, brand_id, quantity_sale, display`

// FindPartsByIDs retrieves parts by identifier.
func (r *CatalogRepository) FindPartsByIDs(ctx context.Context, ids []int64) ([]domain.Part, error) {
	if len(ids) == 0 {
		return []domain.Part{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM parts WHERE id = ANY($1)`, partColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find parts by ids: %w", err)
	}
	defer rows.Close()

	return scanParts(rows)
}

// FindPartsByReferenceSubstring scans visible parts whose reference contains
// the pattern, case-insensitively.
func (r *CatalogRepository) FindPartsByReferenceSubstring(ctx context.Context, pattern string, limit int) ([]domain.Part, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM parts
		WHERE reference ILIKE $1 AND display = true
		ORDER BY reference
		LIMIT $2`, partColumns)

	rows, err := r.pool.Query(ctx, query, "%"+pattern+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("find parts by reference pattern: %w", err)
	}
	defer rows.Close()

	return scanParts(rows)
}

// FindCategoriesByName retrieves categories whose display name contains the
// text, primary categories first.
func (r *CatalogRepository) FindCategoriesByName(ctx context.Context, text string, limit int) ([]domain.Category, error) {
	query := `
		SELECT id, name, alias, level
		FROM categories
		WHERE name ILIKE $1
		ORDER BY level, name
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+text+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("find categories by name: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// FindCategoriesByIDs retrieves categories by identifier.
func (r *CatalogRepository) FindCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}

	query := `
		SELECT id, name, alias, level
		FROM categories
		WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find categories by ids: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// FindPartsByCategoryIDs retrieves visible parts under the given categories.
func (r *CatalogRepository) FindPartsByCategoryIDs(ctx context.Context, ids []int64, limit int) ([]domain.Part, error) {
	if len(ids) == 0 {
		return []domain.Part{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM parts
		WHERE category_id = ANY($1) AND display = true
		ORDER BY name
		LIMIT $2`, partColumns)

	rows, err := r.pool.Query(ctx, query, ids, limit)
	if err != nil {
		return nil, fmt.Errorf("find parts by categories: %w", err)
	}
	defer rows.Close()

	return scanParts(rows)
}

// FindAvailablePrices retrieves available price records for the parts.
func (r *CatalogRepository) FindAvailablePrices(ctx context.Context, partIDs []int64) ([]domain.PriceRecord, error) {
	if len(partIDs) == 0 {
		return []domain.PriceRecord{}, nil
	}

	query := `
		SELECT part_id, brand_id, sale_price, deposit
		FROM prices
		WHERE part_id = ANY($1) AND available = true`

	rows, err := r.pool.Query(ctx, query, partIDs)
	if err != nil {
		return nil, fmt.Errorf("find available prices: %w", err)
	}
	defer rows.Close()

	prices := []domain.PriceRecord{}
	for rows.Next() {
		var p domain.PriceRecord
		if err := rows.Scan(&p.PartID, &p.BrandID, &p.SalePrice, &p.Deposit); err != nil {
			return nil, fmt.Errorf("scan price record: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price records: %w", err)
	}

	return prices, nil
}

// FindBrands retrieves brands by identifier.
func (r *CatalogRepository) FindBrands(ctx context.Context, ids []int64) ([]domain.Brand, error) {
	if len(ids) == 0 {
		return []domain.Brand{}, nil
	}

	query := `
		SELECT id, name, origin
		FROM brands
		WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find brands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Origin); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}

	return brands, nil
}

// FindVisibleImages retrieves the first visible image per part.
func (r *CatalogRepository) FindVisibleImages(ctx context.Context, partIDs []int64) ([]domain.Image, error) {
	if len(partIDs) == 0 {
		return []domain.Image{}, nil
	}

	query := `
		SELECT DISTINCT ON (part_id) part_id, filename
		FROM part_images
		WHERE part_id = ANY($1) AND visible = true
		ORDER BY part_id, sort_order`

	rows, err := r.pool.Query(ctx, query, partIDs)
	if err != nil {
		return nil, fmt.Errorf("find visible images: %w", err)
	}
	defer rows.Close()

	images := []domain.Image{}
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.PartID, &img.Filename); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}

	return images, nil
}
