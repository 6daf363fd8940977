package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchKey_Deterministic(t *testing.T) {
	a := SearchKey("KH22", []string{"KH22", "KH-22"}, 1, 20, []int64{3, 1}, nil, false)
	b := SearchKey("KH22", []string{"KH22", "KH-22"}, 1, 20, []int64{1, 3}, nil, false)

	// Filter id order must not affect the key.
	assert.Equal(t, a, b)
}

func TestSearchKey_Discriminators(t *testing.T) {
	base := SearchKey("KH22", []string{"KH22"}, 1, 20, nil, nil, false)

	assert.NotEqual(t, base, SearchKey("KH23", []string{"KH23"}, 1, 20, nil, nil, false))
	assert.NotEqual(t, base, SearchKey("KH22", []string{"KH22"}, 2, 20, nil, nil, false))
	assert.NotEqual(t, base, SearchKey("KH22", []string{"KH22"}, 1, 50, nil, nil, false))
	assert.NotEqual(t, base, SearchKey("KH22", []string{"KH22"}, 1, 20, []int64{1}, nil, false))
	assert.NotEqual(t, base, SearchKey("KH22", []string{"KH22"}, 1, 20, nil, []int64{1}, false))
	assert.NotEqual(t, base, SearchKey("KH22", []string{"KH22"}, 1, 20, nil, nil, true))
	assert.NotEqual(t, base, SearchKey("KH22", []string{"KH22", "KH-22"}, 1, 20, nil, nil, false))
}

func TestSearchKey_CaseInsensitiveQuery(t *testing.T) {
	a := SearchKey("KH22", []string{"KH22"}, 1, 20, nil, nil, false)
	b := SearchKey("kh22", []string{"KH22"}, 1, 20, nil, nil, false)

	assert.Equal(t, a, b)
}

func TestTTLPolicy_For(t *testing.T) {
	p := DefaultTTLPolicy()

	assert.Equal(t, time.Hour, p.For(true, false))
	assert.Equal(t, 30*time.Minute, p.For(false, false))
	assert.Equal(t, 5*time.Minute, p.For(true, true))
	assert.Equal(t, 5*time.Minute, p.For(false, true))
}

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("v"), time.Minute)

	val, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_MissOnUnknownKey(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get(context.Background(), "absent")
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }
	s.Set(ctx, "k", []byte("v"), time.Minute)

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("old"), time.Minute)
	s.Set(ctx, "k", []byte("new"), time.Minute)

	val, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), val)
	assert.Equal(t, 1, s.Len())
}
