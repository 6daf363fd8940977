package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Total searches processed, by resolution tier.",
	}, []string{"tier"})

	searchCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_search_cache_total",
		Help: "Cache lookups, by outcome.",
	}, []string{"result"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_search_duration_seconds",
		Help:    "End-to-end search latency.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"tier"})

	searchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_search_errors_total",
		Help: "Searches that failed with an internal error.",
	})
)
