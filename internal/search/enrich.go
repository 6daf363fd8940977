package search

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/clutchparts/search-service/internal/domain"
	"github.com/clutchparts/search-service/internal/repository"
)

// PlaceholderImage is served when a part has no visible photo.
const PlaceholderImage = "placeholder.png"

// Enricher assembles full result items from resolved part identifiers by
// joining parts against prices, brands, categories, and images.
type Enricher struct {
	repo         repository.Catalog
	imageBaseURL string
}

// NewEnricher creates an enricher. imageBaseURL prefixes every image filename
// in assembled items.
func NewEnricher(repo repository.Catalog, imageBaseURL string) *Enricher {
	return &Enricher{
		repo:         repo,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
	}
}

// Enrich turns a resolution outcome into display-ready result items. Hidden
// parts and parts excluded by the filters are removed before the joins run.
// On the indexed and scan tiers, parts without an available price are dropped;
// the category tier keeps them as orderable at price zero so a family listing
// is never empty just because stock data lags.
func (e *Enricher) Enrich(ctx context.Context, outcome Outcome, filters domain.SearchFilters) ([]domain.ResultItem, error) {
	parts := outcome.Parts
	if parts == nil {
		ids := make([]int64, 0, len(outcome.Candidates))
		for _, c := range outcome.Candidates {
			ids = append(ids, c.PartID)
		}
		var err error
		parts, err = e.repo.FindPartsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("fetch parts: %w", err)
		}
	}

	kinds := make(map[int64]int, len(outcome.Candidates))
	for _, c := range outcome.Candidates {
		kinds[c.PartID] = c.Kind
	}

	parts = filterParts(parts, filters)
	if len(parts) == 0 {
		return []domain.ResultItem{}, nil
	}

	partIDs := make([]int64, 0, len(parts))
	categoryIDSet := make(map[int64]struct{})
	brandIDSet := make(map[int64]struct{})
	for _, p := range parts {
		partIDs = append(partIDs, p.ID)
		if p.CategoryID != nil {
			categoryIDSet[*p.CategoryID] = struct{}{}
		}
		if p.BrandID != nil {
			brandIDSet[*p.BrandID] = struct{}{}
		}
	}

	var (
		prices []domain.PriceRecord
		images []domain.Image
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if prices, err = e.repo.FindAvailablePrices(gctx, partIDs); err != nil {
			return fmt.Errorf("fetch prices: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if images, err = e.repo.FindVisibleImages(gctx, partIDs); err != nil {
			return fmt.Errorf("fetch images: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Price records may reference brands the parts themselves do not, so the
	// brand fetch waits for the price join.
	for _, pr := range prices {
		brandIDSet[pr.BrandID] = struct{}{}
	}

	var (
		brands     []domain.Brand
		categories []domain.Category
	)

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if brands, err = e.repo.FindBrands(gctx, setToSlice(brandIDSet)); err != nil {
			return fmt.Errorf("fetch brands: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = e.repo.FindCategoriesByIDs(gctx, setToSlice(categoryIDSet)); err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pricesByPart := make(map[int64][]domain.PriceRecord, len(prices))
	for _, pr := range prices {
		pricesByPart[pr.PartID] = append(pricesByPart[pr.PartID], pr)
	}
	brandsByID := make(map[int64]domain.Brand, len(brands))
	for _, b := range brands {
		brandsByID[b.ID] = b
	}
	categoriesByID := make(map[int64]domain.Category, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}
	imagesByPart := make(map[int64]string, len(images))
	for _, img := range images {
		if _, seen := imagesByPart[img.PartID]; !seen {
			imagesByPart[img.PartID] = img.Filename
		}
	}

	keepUnpriced := outcome.Tier == TierCategoryName

	items := make([]domain.ResultItem, 0, len(parts))
	for _, p := range parts {
		price, ok := pickPrice(pricesByPart[p.ID], p.BrandID)
		if !ok && !keepUnpriced {
			continue
		}

		item := domain.ResultItem{
			PartID:         p.ID,
			Reference:      p.Reference,
			Name:           p.Name,
			CategoryID:     p.CategoryID,
			QuantitySale:   p.QuantitySale,
			ResolutionKind: kinds[p.ID],
		}

		brandID := p.BrandID
		if ok && price.BrandID != 0 {
			brandID = &price.BrandID
		}
		var brand *domain.Brand
		if brandID != nil {
			if b, found := brandsByID[*brandID]; found {
				brand = &b
				item.BrandID = brandID
				item.BrandName = b.Name
			}
		}

		if p.CategoryID != nil {
			if c, found := categoriesByID[*p.CategoryID]; found {
				item.CategoryName = c.Name
			}
		}

		if ok {
			item.Price = price.SalePrice
			item.Deposit = price.Deposit
		}
		item.Quality = domain.DeriveQuality(brand, item.Deposit).Label()
		item.Availability = domain.DeriveAvailability(item.Price, p.Display)
		item.ImageURL = e.imageURL(imagesByPart[p.ID])
		item.Score = item.QuantitySale * item.Price

		items = append(items, item)
	}

	return items, nil
}

func (e *Enricher) imageURL(filename string) string {
	if filename == "" {
		filename = PlaceholderImage
	}
	return e.imageBaseURL + "/" + filename
}

// filterParts applies visibility and the brand/category filters.
func filterParts(parts []domain.Part, filters domain.SearchFilters) []domain.Part {
	brandFilter := idSet(filters.BrandIDs)
	categoryFilter := idSet(filters.CategoryIDs)

	kept := make([]domain.Part, 0, len(parts))
	for _, p := range parts {
		if !p.Display {
			continue
		}
		if brandFilter != nil {
			if p.BrandID == nil {
				continue
			}
			if _, ok := brandFilter[*p.BrandID]; !ok {
				continue
			}
		}
		if categoryFilter != nil {
			if p.CategoryID == nil {
				continue
			}
			if _, ok := categoryFilter[*p.CategoryID]; !ok {
				continue
			}
		}
		kept = append(kept, p)
	}
	return kept
}

// pickPrice selects the price record for a part: the one matching the part's
// own brand when present, otherwise the cheapest available record.
func pickPrice(records []domain.PriceRecord, brandID *int64) (domain.PriceRecord, bool) {
	if len(records) == 0 {
		return domain.PriceRecord{}, false
	}
	if brandID != nil {
		for _, r := range records {
			if r.BrandID == *brandID {
				return r, true
			}
		}
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.SalePrice < best.SalePrice {
			best = r
		}
	}
	return best, true
}

func idSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func setToSlice(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
