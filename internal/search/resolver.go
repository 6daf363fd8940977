package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/clutchparts/search-service/internal/domain"
	"github.com/clutchparts/search-service/internal/repository"
)

// Tier identifies which stage of the cascade produced a result set.
type Tier int

const (
	TierNone Tier = iota
	TierIndexed
	TierReferenceScan
	TierCategoryName
)

func (t Tier) String() string {
	switch t {
	case TierIndexed:
		return "indexed"
	case TierReferenceScan:
		return "reference-scan"
	case TierCategoryName:
		return "category-name"
	default:
		return "none"
	}
}

// Candidate is a resolved part identifier with its resolution kind.
type Candidate struct {
	PartID int64
	Kind   int
}

// Outcome is the tagged result of the resolution cascade. A single shared
// enrichment/ranking path consumes it regardless of which tier matched.
type Outcome struct {
	Candidates   []Candidate
	Tier         Tier
	FallbackType string

	// Parts carries pre-fetched part rows for tiers that scan the parts
	// table directly, saving a second fetch during enrichment.
	Parts []domain.Part
}

// Empty reports whether the cascade resolved nothing.
func (o Outcome) Empty() bool {
	return len(o.Candidates) == 0
}

// Resolver runs the tiered reference-resolution cascade. Each tier is
// attempted only when the previous one yields nothing.
type Resolver struct {
	repo          repository.Catalog
	scanLimit     int
	categoryLimit int
	logger        *slog.Logger
}

// NewResolver creates a resolver with the given fallback result limits.
func NewResolver(repo repository.Catalog, scanLimit, categoryLimit int, logger *slog.Logger) *Resolver {
	return &Resolver{
		repo:          repo,
		scanLimit:     scanLimit,
		categoryLimit: categoryLimit,
		logger:        logger,
	}
}

// Resolve runs the cascade for the normalized query. Candidates are
// deduplicated by part id with the minimum kind retained. When
// includeEquivalences is false, low-confidence cross-equivalences
// (kind 3-4) are dropped; direct, manufacturer, and OEM matches always
// survive.
func (r *Resolver) Resolve(ctx context.Context, nq NormalizedQuery, includeEquivalences bool) (Outcome, error) {
	// Category-pure queries skip the reference tiers: there is no reference
	// text to look up.
	if nq.CategoryPure {
		return r.resolveByCategory(ctx, nq.CategoryKeyword)
	}

	outcome, err := r.resolveIndexed(ctx, nq.ReferenceVariants, includeEquivalences)
	if err != nil {
		return Outcome{}, err
	}
	if !outcome.Empty() {
		return outcome, nil
	}

	outcome, err = r.resolveByScan(ctx, nq.PrimaryVariant())
	if err != nil {
		// A failing fallback scan yields nothing from this tier; the
		// cascade continues to the category tier.
		r.logger.WarnContext(ctx, "reference scan tier failed",
			slog.String("pattern", nq.PrimaryVariant()),
			slog.String("error", err.Error()),
		)
	} else if !outcome.Empty() {
		return outcome, nil
	}

	return r.resolveByCategory(ctx, nq.Cleaned)
}

// resolveIndexed is tier 1: the primary reference index and the OEM
// cross-reference table, looked up concurrently.
func (r *Resolver) resolveIndexed(ctx context.Context, variants []string, includeEquivalences bool) (Outcome, error) {
	var (
		refEntries []domain.ReferenceIndexEntry
		oemEntries []domain.OemReferenceEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		refEntries, err = r.repo.FindReferenceEntries(gctx, variants)
		return err
	})
	g.Go(func() error {
		var err error
		oemEntries, err = r.repo.FindOemEntries(gctx, variants)
		return err
	})
	if err := g.Wait(); err != nil {
		return Outcome{}, fmt.Errorf("indexed lookup: %w", err)
	}

	best := make(map[int64]int, len(refEntries))
	order := make([]int64, 0, len(refEntries))
	for _, e := range refEntries {
		if kind, seen := best[e.PartID]; !seen {
			best[e.PartID] = e.Kind
			order = append(order, e.PartID)
		} else if e.Kind < kind {
			best[e.PartID] = e.Kind
		}
	}

	// OEM codes only add parts the primary index did not resolve.
	for _, e := range oemEntries {
		if _, seen := best[e.PartID]; !seen {
			best[e.PartID] = domain.KindOemCode
			order = append(order, e.PartID)
		}
	}

	candidates := make([]Candidate, 0, len(order))
	for _, id := range order {
		kind := best[id]
		if !includeEquivalences && kind >= domain.KindCrossEquivalence && kind < domain.KindOemCode {
			continue
		}
		candidates = append(candidates, Candidate{PartID: id, Kind: kind})
	}

	if len(candidates) == 0 {
		return Outcome{Tier: TierNone}, nil
	}
	return Outcome{Candidates: candidates, Tier: TierIndexed}, nil
}

// resolveByScan is tier 2: a bounded case-insensitive substring scan over raw
// part references. All matches are treated as directly resolved since no
// index data exists to rank them.
func (r *Resolver) resolveByScan(ctx context.Context, pattern string) (Outcome, error) {
	if pattern == "" {
		return Outcome{Tier: TierNone}, nil
	}

	parts, err := r.repo.FindPartsByReferenceSubstring(ctx, pattern, r.scanLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("reference scan: %w", err)
	}
	if len(parts) == 0 {
		return Outcome{Tier: TierNone}, nil
	}

	candidates := make([]Candidate, 0, len(parts))
	for _, p := range parts {
		candidates = append(candidates, Candidate{PartID: p.ID, Kind: domain.KindDirectReference})
	}

	return Outcome{
		Candidates:   candidates,
		Tier:         TierReferenceScan,
		FallbackType: domain.FallbackReferenceScan,
		Parts:        parts,
	}, nil
}

// resolveByCategory is tier 3, the last resort: match categories by display
// name and collect their visible parts. Primary categories win over obscure
// sub-categories.
func (r *Resolver) resolveByCategory(ctx context.Context, text string) (Outcome, error) {
	if text == "" {
		return Outcome{Tier: TierNone}, nil
	}

	categories, err := r.repo.FindCategoriesByName(ctx, text, 10)
	if err != nil {
		return Outcome{}, fmt.Errorf("category name lookup: %w", err)
	}
	if len(categories) == 0 {
		return Outcome{Tier: TierNone}, nil
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Level < categories[j].Level
	})

	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}

	parts, err := r.repo.FindPartsByCategoryIDs(ctx, ids, r.categoryLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("category parts lookup: %w", err)
	}
	if len(parts) == 0 {
		return Outcome{Tier: TierNone}, nil
	}

	candidates := make([]Candidate, 0, len(parts))
	for _, p := range parts {
		candidates = append(candidates, Candidate{PartID: p.ID, Kind: domain.KindDirectReference})
	}

	return Outcome{
		Candidates:   candidates,
		Tier:         TierCategoryName,
		FallbackType: domain.FallbackCategoryName,
		Parts:        parts,
	}, nil
}
