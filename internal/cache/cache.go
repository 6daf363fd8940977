package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Store is a best-effort key/value cache. Implementations must never surface
// store failures to callers: a failed read is a miss, a failed write a no-op.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// TTLPolicy decides how long a search result stays cached depending on how it
// was resolved. Indexed hits are presumed stable and cached longer.
type TTLPolicy struct {
	Indexed  time.Duration
	Fallback time.Duration
	Empty    time.Duration
}

// DefaultTTLPolicy returns the production TTLs: 1h for indexed hits, 30m for
// fallback results, 5m for empty result sets.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Indexed:  time.Hour,
		Fallback: 30 * time.Minute,
		Empty:    5 * time.Minute,
	}
}

// For returns the TTL for a result class.
func (p TTLPolicy) For(indexed bool, empty bool) time.Duration {
	if empty {
		return p.Empty
	}
	if indexed {
		return p.Indexed
	}
	return p.Fallback
}

// SearchKey builds a deterministic cache key from the normalized query, its
// reference variants, pagination, filters, and the equivalence flag. Variants
// are part of the key so normalization changes invalidate stale entries.
func SearchKey(query string, variants []string, page, limit int, brandIDs, categoryIDs []int64, includeEquivalences bool) string {
	var b strings.Builder
	b.WriteString("search:v1:")
	b.WriteString(strings.ToLower(query))
	b.WriteString(":p")
	b.WriteString(strconv.Itoa(page))
	b.WriteString(":l")
	b.WriteString(strconv.Itoa(limit))
	b.WriteString(":b")
	b.WriteString(joinIDs(brandIDs))
	b.WriteString(":c")
	b.WriteString(joinIDs(categoryIDs))
	b.WriteString(fmt.Sprintf(":eq%t", includeEquivalences))
	b.WriteString(":v")
	b.WriteString(strings.Join(variants, "|"))
	return b.String()
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
