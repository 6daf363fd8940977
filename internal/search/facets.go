package search

import (
	"sort"
	"strconv"

	"github.com/clutchparts/search-service/internal/domain"
)

// priceBucket is a fixed price range facet boundary. Max < 0 means unbounded.
type priceBucket struct {
	label string
	min   float64
	max   float64
}

type labeledCount struct {
	label string
	count int
}

var priceBuckets = []priceBucket{
	{"0-50", 0, 50},
	{"50-100", 50, 100},
	{"100-200", 100, 200},
	{"200-500", 200, 500},
	{"500+", 500, -1},
}

// BuildFacets aggregates brand, category, and price-range facets over the
// full result set, before pagination. Empty buckets are omitted and brand and
// category values are ordered by count descending.
func BuildFacets(items []domain.ResultItem) []domain.Facet {
	if len(items) == 0 {
		return []domain.Facet{}
	}

	brandCounts := make(map[int64]*labeledCount)
	categoryCounts := make(map[int64]*labeledCount)
	priceCounts := make([]int, len(priceBuckets))

	for _, item := range items {
		if item.BrandID != nil {
			b, ok := brandCounts[*item.BrandID]
			if !ok {
				b = &labeledCount{label: item.BrandName}
				brandCounts[*item.BrandID] = b
			}
			b.count++
		}
		if item.CategoryID != nil {
			c, ok := categoryCounts[*item.CategoryID]
			if !ok {
				c = &labeledCount{label: item.CategoryName}
				categoryCounts[*item.CategoryID] = c
			}
			c.count++
		}
		for i, pb := range priceBuckets {
			if item.Price >= pb.min && (pb.max < 0 || item.Price < pb.max) {
				priceCounts[i]++
				break
			}
		}
	}

	facets := make([]domain.Facet, 0, 3)

	if values := countedValues(brandCounts); len(values) > 0 {
		facets = append(facets, domain.Facet{Field: "brand_id", Label: "Brand", Values: values})
	}
	if values := countedValues(categoryCounts); len(values) > 0 {
		facets = append(facets, domain.Facet{Field: "category_id", Label: "Category", Values: values})
	}

	priceValues := make([]domain.FacetValue, 0, len(priceBuckets))
	for i, pb := range priceBuckets {
		if priceCounts[i] == 0 {
			continue
		}
		priceValues = append(priceValues, domain.FacetValue{
			Value: pb.label,
			Label: pb.label,
			Count: priceCounts[i],
		})
	}
	if len(priceValues) > 0 {
		facets = append(facets, domain.Facet{Field: "price", Label: "Price", Values: priceValues})
	}

	return facets
}

func countedValues(counts map[int64]*labeledCount) []domain.FacetValue {
	values := make([]domain.FacetValue, 0, len(counts))
	for id, b := range counts {
		values = append(values, domain.FacetValue{
			Value: strconv.FormatInt(id, 10),
			Label: b.label,
			Count: b.count,
		})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Label < values[j].Label
	})
	return values
}
