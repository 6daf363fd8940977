package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/clutchparts/search-service/internal/domain"
	"github.com/clutchparts/search-service/internal/search"
	"github.com/clutchparts/search-service/pkg/httputil"
)

// SearchHandler serves the reference-resolution search endpoint.
type SearchHandler struct {
	service *search.Service
	logger  *slog.Logger
}

// NewSearchHandler creates a search HTTP handler.
func NewSearchHandler(svc *search.Service, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles GET /api/v1/parts/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "q must not be empty",
			},
		})
		return
	}

	params := domain.SearchParams{
		Query: query,
		Page:  1,
		Limit: 20,
	}

	brandIDs, ok := parseIDList(w, r.URL.Query().Get("brand_ids"), "brand_ids")
	if !ok {
		return
	}
	params.Filters.BrandIDs = brandIDs

	categoryIDs, ok := parseIDList(w, r.URL.Query().Get("category_ids"), "category_ids")
	if !ok {
		return
	}
	params.Filters.CategoryIDs = categoryIDs

	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			params.Page = page
		}
	}
	// Out-of-range limits are clamped by the service, not rejected here.
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	// Equivalence matches are included unless explicitly switched off.
	if v := r.URL.Query().Get("include_equivalences"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_PARAMETER",
					Message: "include_equivalences must be a boolean",
				},
			})
			return
		}
		params.ExcludeEquivalences = !include
	}

	resp := h.service.Search(r.Context(), params)
	if !resp.Success {
		httputil.WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// parseIDList parses a comma-separated list of positive int64 ids. An empty
// raw value yields a nil slice.
func parseIDList(w http.ResponseWriter, raw, name string) ([]int64, bool) {
	if raw == "" {
		return nil, true
	}

	fields := strings.Split(raw, ",")
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_PARAMETER",
					Message: name + " must be a comma-separated list of positive integers",
				},
			})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
