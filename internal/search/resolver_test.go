package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchparts/search-service/internal/domain"
)

// fakeCatalog is an in-memory repository.Catalog with per-method call counts
// and injectable failures.
type fakeCatalog struct {
	refEntries []domain.ReferenceIndexEntry
	oemEntries []domain.OemReferenceEntry
	parts      map[int64]domain.Part
	categories []domain.Category
	prices     []domain.PriceRecord
	brands     []domain.Brand
	images     []domain.Image

	refErr      error
	oemErr      error
	scanErr     error
	categoryErr error

	refCalls      int
	oemCalls      int
	scanCalls     int
	categoryCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{parts: make(map[int64]domain.Part)}
}

func (f *fakeCatalog) addPart(p domain.Part) {
	f.parts[p.ID] = p
}

func (f *fakeCatalog) FindReferenceEntries(_ context.Context, tokens []string) ([]domain.ReferenceIndexEntry, error) {
	f.refCalls++
	if f.refErr != nil {
		return nil, f.refErr
	}
	matched := []domain.ReferenceIndexEntry{}
	for _, e := range f.refEntries {
		for _, tok := range tokens {
			if e.Token == tok {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeCatalog) FindOemEntries(_ context.Context, codes []string) ([]domain.OemReferenceEntry, error) {
	f.oemCalls++
	if f.oemErr != nil {
		return nil, f.oemErr
	}
	matched := []domain.OemReferenceEntry{}
	for _, e := range f.oemEntries {
		for _, code := range codes {
			if e.Code == code {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeCatalog) FindPartsByIDs(_ context.Context, ids []int64) ([]domain.Part, error) {
	parts := []domain.Part{}
	for _, id := range ids {
		if p, ok := f.parts[id]; ok {
			parts = append(parts, p)
		}
	}
	return parts, nil
}

func (f *fakeCatalog) FindPartsByReferenceSubstring(_ context.Context, pattern string, limit int) ([]domain.Part, error) {
	f.scanCalls++
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	parts := []domain.Part{}
	for _, p := range f.parts {
		if !p.Display {
			continue
		}
		if strings.Contains(strings.ToUpper(p.Reference), strings.ToUpper(pattern)) {
			parts = append(parts, p)
			if len(parts) == limit {
				break
			}
		}
	}
	return parts, nil
}

func (f *fakeCatalog) FindCategoriesByName(_ context.Context, text string, limit int) ([]domain.Category, error) {
	f.categoryCalls++
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	matched := []domain.Category{}
	for _, c := range f.categories {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(text)) {
			matched = append(matched, c)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeCatalog) FindCategoriesByIDs(_ context.Context, ids []int64) ([]domain.Category, error) {
	matched := []domain.Category{}
	for _, c := range f.categories {
		for _, id := range ids {
			if c.ID == id {
				matched = append(matched, c)
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeCatalog) FindPartsByCategoryIDs(_ context.Context, ids []int64, limit int) ([]domain.Part, error) {
	parts := []domain.Part{}
	for _, p := range f.parts {
		if !p.Display || p.CategoryID == nil {
			continue
		}
		for _, id := range ids {
			if *p.CategoryID == id {
				parts = append(parts, p)
				break
			}
		}
		if len(parts) == limit {
			break
		}
	}
	return parts, nil
}

func (f *fakeCatalog) FindAvailablePrices(_ context.Context, partIDs []int64) ([]domain.PriceRecord, error) {
	matched := []domain.PriceRecord{}
	for _, pr := range f.prices {
		for _, id := range partIDs {
			if pr.PartID == id {
				matched = append(matched, pr)
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeCatalog) FindBrands(_ context.Context, ids []int64) ([]domain.Brand, error) {
	matched := []domain.Brand{}
	for _, b := range f.brands {
		for _, id := range ids {
			if b.ID == id {
				matched = append(matched, b)
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeCatalog) FindVisibleImages(_ context.Context, partIDs []int64) ([]domain.Image, error) {
	matched := []domain.Image{}
	for _, img := range f.images {
		for _, id := range partIDs {
			if img.PartID == id {
				matched = append(matched, img)
				break
			}
		}
	}
	return matched, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func int64Ptr(v int64) *int64 { return &v }

func TestResolver_IndexedTierShortCircuits(t *testing.T) {
	repo := newFakeCatalog()
	repo.refEntries = []domain.ReferenceIndexEntry{
		{Token: "KH22", PartID: 1, Kind: domain.KindDirectReference},
	}

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("KH22"), false)

	require.NoError(t, err)
	assert.Equal(t, TierIndexed, outcome.Tier)
	assert.Equal(t, []Candidate{{PartID: 1, Kind: domain.KindDirectReference}}, outcome.Candidates)
	assert.Empty(t, outcome.FallbackType)
	assert.Zero(t, repo.scanCalls)
	assert.Zero(t, repo.categoryCalls)
}

func TestResolver_MinKindWinsOnDuplicate(t *testing.T) {
	repo := newFakeCatalog()
	repo.refEntries = []domain.ReferenceIndexEntry{
		{Token: "KH22", PartID: 1, Kind: domain.KindManufacturerCross},
		{Token: "KH-22", PartID: 1, Kind: domain.KindDirectReference},
	}

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("KH22"), false)

	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, domain.KindDirectReference, outcome.Candidates[0].Kind)
}

func TestResolver_OemOnlyMatchGetsOemKind(t *testing.T) {
	repo := newFakeCatalog()
	repo.oemEntries = []domain.OemReferenceEntry{
		{Code: "KH22", PartID: 7},
	}

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("KH22"), false)

	require.NoError(t, err)
	assert.Equal(t, TierIndexed, outcome.Tier)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, domain.KindOemCode, outcome.Candidates[0].Kind)
}

func TestResolver_OemDoesNotDowngradeIndexedKind(t *testing.T) {
	repo := newFakeCatalog()
	repo.refEntries = []domain.ReferenceIndexEntry{
		{Token: "KH22", PartID: 1, Kind: domain.KindManufacturerCross},
	}
	repo.oemEntries = []domain.OemReferenceEntry{
		{Code: "KH22", PartID: 1},
	}

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("KH22"), false)

	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, domain.KindManufacturerCross, outcome.Candidates[0].Kind)
}

func TestResolver_EquivalenceExclusion(t *testing.T) {
	repo := newFakeCatalog()
	repo.refEntries = []domain.ReferenceIndexEntry{
		{Token: "KH22", PartID: 1, Kind: domain.KindDirectReference},
		{Token: "KH22", PartID: 2, Kind: domain.KindCrossEquivalence},
		{Token: "KH22", PartID: 3, Kind: domain.KindSubstitute},
	}
	repo.oemEntries = []domain.OemReferenceEntry{
		{Code: "KH22", PartID: 4},
	}

	r := NewResolver(repo, 50, 200, testLogger())

	outcome, err := r.Resolve(context.Background(), Normalize("KH22"), false)
	require.NoError(t, err)
	ids := candidateIDs(outcome)
	assert.ElementsMatch(t, []int64{1, 4}, ids)

	outcome, err = r.Resolve(context.Background(), Normalize("KH22"), true)
	require.NoError(t, err)
	ids = candidateIDs(outcome)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, ids)
}

func TestResolver_ScanTierWhenIndexEmpty(t *testing.T) {
	repo := newFakeCatalog()
	repo.addPart(domain.Part{ID: 5, Name: "Clutch Kit", Reference: "XKH2290", Display: true})

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("KH22"), false)

	require.NoError(t, err)
	assert.Equal(t, TierReferenceScan, outcome.Tier)
	assert.Equal(t, domain.FallbackReferenceScan, outcome.FallbackType)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, int64(5), outcome.Candidates[0].PartID)
	assert.Equal(t, domain.KindDirectReference, outcome.Candidates[0].Kind)
	assert.Len(t, outcome.Parts, 1)
}

func TestResolver_CategoryTierLastResort(t *testing.T) {
	repo := newFakeCatalog()
	repo.categories = []domain.Category{
		{ID: 10, Name: "Brake Discs", Level: 1},
	}
	repo.addPart(domain.Part{ID: 6, Name: "Brake Disc Front", Reference: "BD100", CategoryID: int64Ptr(10), Display: true})

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("BRAKE DISCS"), false)

	require.NoError(t, err)
	assert.Equal(t, TierCategoryName, outcome.Tier)
	assert.Equal(t, domain.FallbackCategoryName, outcome.FallbackType)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, int64(6), outcome.Candidates[0].PartID)
}

func TestResolver_CategoryPureSkipsReferenceTiers(t *testing.T) {
	repo := newFakeCatalog()
	repo.categories = []domain.Category{
		{ID: 10, Name: "Brake Pads", Level: 1},
	}
	repo.addPart(domain.Part{ID: 6, Name: "Brake Pad Set", Reference: "BP1", CategoryID: int64Ptr(10), Display: true})

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("brake pad"), false)

	require.NoError(t, err)
	assert.Equal(t, TierCategoryName, outcome.Tier)
	assert.Zero(t, repo.refCalls)
	assert.Zero(t, repo.oemCalls)
	assert.Zero(t, repo.scanCalls)
	assert.Equal(t, 1, repo.categoryCalls)
}

func TestResolver_IndexedTierErrorPropagates(t *testing.T) {
	repo := newFakeCatalog()
	repo.refErr = errors.New("db down")

	r := NewResolver(repo, 50, 200, testLogger())
	_, err := r.Resolve(context.Background(), Normalize("KH22"), false)

	require.Error(t, err)
	assert.Zero(t, repo.scanCalls)
}

func TestResolver_ScanTierErrorFallsThroughToCategory(t *testing.T) {
	repo := newFakeCatalog()
	repo.scanErr = errors.New("scan timeout")
	repo.categories = []domain.Category{
		{ID: 10, Name: "KH22 Specials", Level: 2},
	}
	repo.addPart(domain.Part{ID: 9, Name: "Special", Reference: "ZZZ", CategoryID: int64Ptr(10), Display: true})

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("KH22"), false)

	require.NoError(t, err)
	assert.Equal(t, TierCategoryName, outcome.Tier)
	assert.Equal(t, 1, repo.scanCalls)
	assert.Equal(t, 1, repo.categoryCalls)
}

func TestResolver_CategoryTierErrorPropagates(t *testing.T) {
	repo := newFakeCatalog()
	repo.categoryErr = errors.New("db down")

	r := NewResolver(repo, 50, 200, testLogger())
	_, err := r.Resolve(context.Background(), Normalize("nonexistent"), false)

	require.Error(t, err)
}

func TestResolver_NothingResolves(t *testing.T) {
	repo := newFakeCatalog()

	r := NewResolver(repo, 50, 200, testLogger())
	outcome, err := r.Resolve(context.Background(), Normalize("nonexistent"), false)

	require.NoError(t, err)
	assert.True(t, outcome.Empty())
}

func candidateIDs(o Outcome) []int64 {
	ids := make([]int64, 0, len(o.Candidates))
	for _, c := range o.Candidates {
		ids = append(ids, c.PartID)
	}
	return ids
}
