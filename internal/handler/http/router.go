package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clutchparts/search-service/internal/fulltext"
	"github.com/clutchparts/search-service/internal/search"
	"github.com/clutchparts/search-service/pkg/health"
	"github.com/clutchparts/search-service/pkg/middleware"
)

// NewRouter creates a chi router with all service routes registered.
func NewRouter(
	searchService *search.Service,
	browseEngine fulltext.Engine,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("search"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(searchService, logger)
	r.Get("/api/v1/parts/search", searchHandler.Search)

	if browseEngine != nil {
		browseHandler := NewBrowseHandler(browseEngine, logger)
		r.Get("/api/v1/catalog/search", browseHandler.Browse)
	}

	return r
}
