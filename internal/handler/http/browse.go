package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/clutchparts/search-service/internal/fulltext"
	"github.com/clutchparts/search-service/pkg/httputil"
)

// BrowseHandler serves the full-text catalog browse endpoint backed by the
// part document index.
type BrowseHandler struct {
	engine fulltext.Engine
	logger *slog.Logger
}

// NewBrowseHandler creates a browse HTTP handler.
func NewBrowseHandler(engine fulltext.Engine, logger *slog.Logger) *BrowseHandler {
	return &BrowseHandler{
		engine: engine,
		logger: logger,
	}
}

// Browse handles GET /api/v1/catalog/search
func (h *BrowseHandler) Browse(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy != "" && !fulltext.IsValidSort(sortBy) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "sort must be one of: relevance, price_asc, price_desc",
			},
		})
		return
	}

	query := &fulltext.BrowseQuery{
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		SortBy:  sortBy,
		Page:    1,
		PerPage: 20,
	}

	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "category_id must be a positive integer"},
			})
			return
		}
		query.CategoryID = &id
	}
	if v := r.URL.Query().Get("brand_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "brand_id must be a positive integer"},
			})
			return
		}
		query.BrandID = &id
	}

	minPrice, ok := parsePrice(w, r.URL.Query().Get("min_price"), "min_price")
	if !ok {
		return
	}
	query.MinPrice = minPrice

	maxPrice, ok := parsePrice(w, r.URL.Query().Get("max_price"), "max_price")
	if !ok {
		return
	}
	query.MaxPrice = maxPrice

	if query.MinPrice != nil && query.MaxPrice != nil && *query.MinPrice > *query.MaxPrice {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "min_price must not exceed max_price"},
		})
		return
	}

	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			query.Page = page
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if perPage, err := strconv.Atoi(v); err == nil && perPage > 0 && perPage <= 100 {
			query.PerPage = perPage
		}
	}

	result, err := h.engine.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

func parsePrice(w http.ResponseWriter, raw, name string) (*float64, bool) {
	if raw == "" {
		return nil, true
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: name + " must be a non-negative number"},
		})
		return nil, false
	}
	return &price, true
}
