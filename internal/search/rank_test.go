package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clutchparts/search-service/internal/domain"
)

func TestSortItems_KindBeforeScore(t *testing.T) {
	items := []domain.ResultItem{
		{PartID: 1, Name: "B", ResolutionKind: domain.KindOemCode, Score: 1000},
		{PartID: 2, Name: "A", ResolutionKind: domain.KindDirectReference, Score: 10},
	}

	SortItems(items)

	assert.Equal(t, int64(2), items[0].PartID)
	assert.Equal(t, int64(1), items[1].PartID)
}

func TestSortItems_ScoreDescWithinKind(t *testing.T) {
	items := []domain.ResultItem{
		{PartID: 1, Name: "A", ResolutionKind: 0, Score: 10},
		{PartID: 2, Name: "B", ResolutionKind: 0, Score: 500},
		{PartID: 3, Name: "C", ResolutionKind: 0, Score: 100},
	}

	SortItems(items)

	assert.Equal(t, []int64{2, 3, 1}, itemIDs(items))
}

func TestSortItems_NameBreaksTies(t *testing.T) {
	items := []domain.ResultItem{
		{PartID: 1, Name: "Zeta", ResolutionKind: 0, Score: 50},
		{PartID: 2, Name: "Alpha", ResolutionKind: 0, Score: 50},
	}

	SortItems(items)

	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "Zeta", items[1].Name)
}

func TestSortItems_StableForIdenticalKeys(t *testing.T) {
	items := []domain.ResultItem{
		{PartID: 1, Name: "Same", ResolutionKind: 0, Score: 50},
		{PartID: 2, Name: "Same", ResolutionKind: 0, Score: 50},
		{PartID: 3, Name: "Same", ResolutionKind: 0, Score: 50},
	}

	SortItems(items)

	assert.Equal(t, []int64{1, 2, 3}, itemIDs(items))
}

func itemIDs(items []domain.ResultItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.PartID)
	}
	return ids
}
