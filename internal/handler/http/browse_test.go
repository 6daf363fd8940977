package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchparts/search-service/internal/fulltext"
	"github.com/clutchparts/search-service/internal/fulltext/memory"
	"github.com/clutchparts/search-service/pkg/httputil"
	"github.com/clutchparts/search-service/pkg/logger"
)

func testBrowseHandler(t *testing.T) *BrowseHandler {
	t.Helper()
	eng := memory.New()
	require.NoError(t, eng.BulkIndex(t.Context(), []fulltext.PartDocument{
		{ID: 1, Reference: "KH22", Name: "Clutch Kit", BrandID: 20, Price: 120},
		{ID: 2, Reference: "BD100", Name: "Brake Disc", BrandID: 21, Price: 45},
	}))
	log := logger.NewWithWriter("search-service-test", "error", discardWriter{})
	return NewBrowseHandler(eng, log)
}

func TestBrowseHandler_Success(t *testing.T) {
	h := testBrowseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?q=clutch", nil)
	rec := httptest.NewRecorder()
	h.Browse(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data fulltext.BrowseResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, int64(1), resp.Data.Parts[0].ID)
}

func TestBrowseHandler_EmptyQueryListsAll(t *testing.T) {
	h := testBrowseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search", nil)
	rec := httptest.NewRecorder()
	h.Browse(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data fulltext.BrowseResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Total)
}

func TestBrowseHandler_InvalidSort(t *testing.T) {
	h := testBrowseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?sort=popularity", nil)
	rec := httptest.NewRecorder()
	h.Browse(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrowseHandler_PriceRangeValidation(t *testing.T) {
	h := testBrowseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?min_price=100&max_price=50", nil)
	rec := httptest.NewRecorder()
	h.Browse(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestBrowseHandler_BrandFilter(t *testing.T) {
	h := testBrowseHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?brand_id=21", nil)
	rec := httptest.NewRecorder()
	h.Browse(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data fulltext.BrowseResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, int64(2), resp.Data.Parts[0].ID)
}
