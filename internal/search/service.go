package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/clutchparts/search-service/internal/cache"
	"github.com/clutchparts/search-service/internal/domain"
	"github.com/clutchparts/search-service/pkg/pagination"
)

// Notifier receives a notification after each completed search. Publishing is
// best-effort and must never block or fail the search path.
type Notifier interface {
	SearchPerformed(ctx context.Context, query, tier string, total int, tookMs int64)
}

// Service is the search orchestrator: it normalizes the query, runs the
// resolution cascade, enriches and ranks the results, and handles caching.
type Service struct {
	resolver *Resolver
	enricher *Enricher
	store    cache.Store
	ttl      cache.TTLPolicy
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates the search service. store and notifier may be nil, in
// which case caching and notifications are disabled.
func NewService(resolver *Resolver, enricher *Enricher, store cache.Store, ttl cache.TTLPolicy, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		resolver: resolver,
		enricher: enricher,
		store:    store,
		ttl:      ttl,
		notifier: notifier,
		logger:   logger,
	}
}

// Search runs the full pipeline for the given parameters. The response
// envelope always carries Success; identical parameters yield semantically
// identical responses apart from timing and the Cached flag.
func (s *Service) Search(ctx context.Context, params domain.SearchParams) *domain.SearchResponse {
	started := time.Now()

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = pagination.DefaultParams().Limit
	}
	params.Limit = pagination.Clamp(params.Limit)

	nq := Normalize(params.Query)
	if nq.Cleaned == "" {
		return successResponse(emptyData(params, started))
	}

	includeEquivalences := !params.ExcludeEquivalences

	key := cache.SearchKey(nq.Cleaned, nq.ReferenceVariants, params.Page, params.Limit,
		params.Filters.BrandIDs, params.Filters.CategoryIDs, includeEquivalences)

	if s.store != nil {
		if raw, hit := s.store.Get(ctx, key); hit {
			var data domain.SearchData
			if err := json.Unmarshal(raw, &data); err == nil {
				searchCacheTotal.WithLabelValues("hit").Inc()
				data.Cached = true
				data.ExecutionTimeMs = time.Since(started).Milliseconds()
				return successResponse(data)
			}
			s.logger.WarnContext(ctx, "discarding undecodable cache entry", slog.String("key", key))
		}
		searchCacheTotal.WithLabelValues("miss").Inc()
	}

	outcome, err := s.resolver.Resolve(ctx, nq, includeEquivalences)
	if err != nil {
		return s.failure(ctx, params, err)
	}

	var items []domain.ResultItem
	if !outcome.Empty() {
		items, err = s.enricher.Enrich(ctx, outcome, params.Filters)
		if err != nil {
			return s.failure(ctx, params, err)
		}
	}

	SortItems(items)

	total := len(items)
	facets := BuildFacets(items)
	pageItems := slicePage(items, params.Page, params.Limit)

	data := domain.SearchData{
		Items:           pageItems,
		Total:           total,
		Page:            params.Page,
		Limit:           params.Limit,
		Pages:           pagination.Pages(total, params.Limit),
		Facets:          facets,
		FallbackType:    outcome.FallbackType,
		ExecutionTimeMs: time.Since(started).Milliseconds(),
	}

	s.cacheResult(ctx, key, data, outcome.Tier)

	tier := outcome.Tier.String()
	searchesTotal.WithLabelValues(tier).Inc()
	searchDuration.WithLabelValues(tier).Observe(time.Since(started).Seconds())

	if s.notifier != nil {
		s.notifier.SearchPerformed(ctx, nq.Cleaned, tier, total, data.ExecutionTimeMs)
	}

	s.logger.InfoContext(ctx, "search completed",
		slog.String("query", nq.Cleaned),
		slog.String("tier", tier),
		slog.Int("total", total),
		slog.Int64("took_ms", data.ExecutionTimeMs),
	)

	return successResponse(data)
}

// cacheResult stores the page under the search key. The Cached flag is stored
// as false and flipped on read.
func (s *Service) cacheResult(ctx context.Context, key string, data domain.SearchData, tier Tier) {
	if s.store == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode result for caching", slog.String("error", err.Error()))
		return
	}
	ttl := s.ttl.For(tier == TierIndexed, data.Total == 0)
	s.store.Set(ctx, key, raw, ttl)
}

func (s *Service) failure(ctx context.Context, params domain.SearchParams, err error) *domain.SearchResponse {
	searchErrorsTotal.Inc()
	s.logger.ErrorContext(ctx, "search failed",
		slog.String("query", params.Query),
		slog.String("error", err.Error()),
	)
	return &domain.SearchResponse{Success: false, Error: "search temporarily unavailable"}
}

func successResponse(data domain.SearchData) *domain.SearchResponse {
	return &domain.SearchResponse{Success: true, Data: &data}
}

func emptyData(params domain.SearchParams, started time.Time) domain.SearchData {
	return domain.SearchData{
		Items:           []domain.ResultItem{},
		Total:           0,
		Page:            params.Page,
		Limit:           params.Limit,
		Pages:           0,
		Facets:          []domain.Facet{},
		ExecutionTimeMs: time.Since(started).Milliseconds(),
	}
}

// slicePage cuts the requested page out of the full ranked set. Pages past
// the end yield an empty slice rather than an error.
func slicePage(items []domain.ResultItem, page, limit int) []domain.ResultItem {
	start := (page - 1) * limit
	if start >= len(items) {
		return []domain.ResultItem{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
