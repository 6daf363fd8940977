package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/clutchparts/search-service/internal/fulltext"
)

// Engine is an in-memory implementation of the fulltext.Engine interface.
// It provides simple substring matching on reference, name, and description.
// Thread-safe via sync.RWMutex.
type Engine struct {
	mu    sync.RWMutex
	parts map[int64]fulltext.PartDocument
}

// New creates a new in-memory browse engine.
func New() *Engine {
	return &Engine{
		parts: make(map[int64]fulltext.PartDocument),
	}
}

// Index adds or updates a single part in the in-memory index.
func (e *Engine) Index(_ context.Context, doc *fulltext.PartDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.parts[doc.ID] = *doc
	return nil
}

// Delete removes a part from the in-memory index by its ID.
func (e *Engine) Delete(_ context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.parts, id)
	return nil
}

// Search executes a browse query against the in-memory index.
func (e *Engine) Search(_ context.Context, query *fulltext.BrowseQuery) (*fulltext.BrowseResult, error) {
	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make([]fulltext.PartDocument, 0)

	queryLower := strings.ToLower(query.Query)

	for _, p := range e.parts {
		if !e.matches(p, query, queryLower) {
			continue
		}
		matched = append(matched, p)
	}

	// Map iteration order is random, so fix a base order before sorting.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})
	e.sortParts(matched, query.SortBy)

	total := len(matched)

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	offset := (page - 1) * perPage
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}

	return &fulltext.BrowseResult{
		Parts:   matched[offset:end],
		Total:   total,
		Page:    page,
		PerPage: perPage,
		TookMs:  time.Since(start).Milliseconds(),
	}, nil
}

// BulkIndex adds or updates multiple parts in the in-memory index.
func (e *Engine) BulkIndex(_ context.Context, docs []fulltext.PartDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range docs {
		e.parts[docs[i].ID] = docs[i]
	}
	return nil
}

// matches checks whether a part matches the browse query filters.
func (e *Engine) matches(p fulltext.PartDocument, query *fulltext.BrowseQuery, queryLower string) bool {
	if queryLower != "" {
		refLower := strings.ToLower(p.Reference)
		nameLower := strings.ToLower(p.Name)
		descLower := strings.ToLower(p.Description)
		if !strings.Contains(refLower, queryLower) &&
			!strings.Contains(nameLower, queryLower) &&
			!strings.Contains(descLower, queryLower) {
			return false
		}
	}

	if query.CategoryID != nil && p.CategoryID != *query.CategoryID {
		return false
	}

	if query.BrandID != nil && p.BrandID != *query.BrandID {
		return false
	}

	if query.MinPrice != nil && p.Price < *query.MinPrice {
		return false
	}
	if query.MaxPrice != nil && p.Price > *query.MaxPrice {
		return false
	}

	return true
}

// sortParts sorts the matched parts based on the sort option.
func (e *Engine) sortParts(parts []fulltext.PartDocument, sortBy string) {
	switch sortBy {
	case fulltext.SortPriceAsc:
		sort.SliceStable(parts, func(i, j int) bool {
			return parts[i].Price < parts[j].Price
		})
	case fulltext.SortPriceDesc:
		sort.SliceStable(parts, func(i, j int) bool {
			return parts[i].Price > parts[j].Price
		})
	default:
		// Relevance in memory is the id order fixed above.
	}
}
