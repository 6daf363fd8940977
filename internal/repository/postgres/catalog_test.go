package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchparts/search-service/internal/domain"
	"github.com/clutchparts/search-service/pkg/database"
)

func setupRepo(t *testing.T) (*CatalogRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewCatalogRepository(mock)
	return repo, mock
}

func partColumnNames() []string {
	return []string{"id", "name", "reference", "category_id", "brand_id", "quantity_sale", "display"}
}

func TestFindReferenceEntries(t *testing.T) {
	repo, mock := setupRepo(t)
	tokens := []string{"KH22", "KH-22"}

	rows := pgxmock.NewRows([]string{"token", "part_id", "kind"}).
		AddRow("KH22", int64(1), 0).
		AddRow("KH-22", int64(2), 1)
	mock.ExpectQuery(`SELECT token, part_id, kind`).
		WithArgs(tokens).
		WillReturnRows(rows)

	entries, err := repo.FindReferenceEntries(context.Background(), tokens)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].PartID)
	assert.Equal(t, 1, entries[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReferenceEntries_EmptyTokens(t *testing.T) {
	repo, mock := setupRepo(t)

	entries, err := repo.FindReferenceEntries(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReferenceEntries_QueryError(t *testing.T) {
	repo, mock := setupRepo(t)
	tokens := []string{"KH22"}

	mock.ExpectQuery(`SELECT token, part_id, kind`).
		WithArgs(tokens).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindReferenceEntries(context.Background(), tokens)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find reference entries")
}

func TestFindOemEntries(t *testing.T) {
	repo, mock := setupRepo(t)
	codes := []string{"7700102303"}

	rows := pgxmock.NewRows([]string{"code", "part_id"}).
		AddRow("7700102303", int64(9))
	mock.ExpectQuery(`SELECT code, part_id`).
		WithArgs(codes).
		WillReturnRows(rows)

	entries, err := repo.FindOemEntries(context.Background(), codes)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(9), entries[0].PartID)
}

func TestFindPartsByIDs(t *testing.T) {
	repo, mock := setupRepo(t)
	ids := []int64{1}
	catID := int64(10)
	brandID := int64(20)

	rows := pgxmock.NewRows(partColumnNames()).
		AddRow(int64(1), "Clutch Kit", "KH22", &catID, &brandID, 2.0, true)
	mock.ExpectQuery(`SELECT (.+) FROM parts WHERE id = ANY`).
		WithArgs(ids).
		WillReturnRows(rows)

	parts, err := repo.FindPartsByIDs(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "KH22", parts[0].Reference)
	require.NotNil(t, parts[0].CategoryID)
	assert.Equal(t, int64(10), *parts[0].CategoryID)
}

func TestFindPartsByReferenceSubstring(t *testing.T) {
	repo, mock := setupRepo(t)

	rows := pgxmock.NewRows(partColumnNames()).
		AddRow(int64(5), "Kit", "XKH2290", nil, nil, 1.0, true)
	mock.ExpectQuery(`WHERE reference ILIKE`).
		WithArgs("%KH22%", 50).
		WillReturnRows(rows)

	parts, err := repo.FindPartsByReferenceSubstring(context.Background(), "KH22", 50)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Nil(t, parts[0].BrandID)
}

func TestFindCategoriesByName(t *testing.T) {
	repo, mock := setupRepo(t)

	rows := pgxmock.NewRows([]string{"id", "name", "alias", "level"}).
		AddRow(int64(10), "Brake Discs", "brake-discs", 1)
	mock.ExpectQuery(`FROM categories`).
		WithArgs("%brake%", 10).
		WillReturnRows(rows)

	categories, err := repo.FindCategoriesByName(context.Background(), "brake", 10)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.True(t, categories[0].IsPrimary())
}

func TestFindAvailablePrices(t *testing.T) {
	repo, mock := setupRepo(t)
	ids := []int64{1, 2}

	rows := pgxmock.NewRows([]string{"part_id", "brand_id", "sale_price", "deposit"}).
		AddRow(int64(1), int64(20), 100.0, 0.0).
		AddRow(int64(2), int64(21), 90.0, 15.0)
	mock.ExpectQuery(`FROM prices`).
		WithArgs(ids).
		WillReturnRows(rows)

	prices, err := repo.FindAvailablePrices(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, 15.0, prices[1].Deposit)
}

func TestFindBrands(t *testing.T) {
	repo, mock := setupRepo(t)
	ids := []int64{20}

	rows := pgxmock.NewRows([]string{"id", "name", "origin"}).
		AddRow(int64(20), "Valeo", domain.OriginAftermarket)
	mock.ExpectQuery(`FROM brands`).
		WithArgs(ids).
		WillReturnRows(rows)

	brands, err := repo.FindBrands(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, domain.OriginAftermarket, brands[0].Origin)
}

func TestFindVisibleImages(t *testing.T) {
	repo, mock := setupRepo(t)
	ids := []int64{1}

	rows := pgxmock.NewRows([]string{"part_id", "filename"}).
		AddRow(int64(1), "kh22.jpg")
	mock.ExpectQuery(`FROM part_images`).
		WithArgs(ids).
		WillReturnRows(rows)

	images, err := repo.FindVisibleImages(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "kh22.jpg", images[0].Filename)
}

func TestFindPartsByCategoryIDs(t *testing.T) {
	repo, mock := setupRepo(t)
	ids := []int64{10}
	catID := int64(10)

	rows := pgxmock.NewRows(partColumnNames()).
		AddRow(int64(6), "Brake Disc Front", "BD100", &catID, nil, 1.0, true)
	mock.ExpectQuery(`WHERE category_id = ANY`).
		WithArgs(ids, 200).
		WillReturnRows(rows)

	parts, err := repo.FindPartsByCategoryIDs(context.Background(), ids, 200)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "BD100", parts[0].Reference)
}
