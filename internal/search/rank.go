package search

import (
	"sort"

	"github.com/clutchparts/search-service/internal/domain"
)

// SortItems orders result items in place: strongest resolution kind first,
// then by stock-value score descending, then by name for a stable tail order.
// The sort is stable so equal items keep their resolution order.
func SortItems(items []domain.ResultItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ResolutionKind != b.ResolutionKind {
			return a.ResolutionKind < b.ResolutionKind
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Name < b.Name
	})
}
