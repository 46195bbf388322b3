package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type libraryPath string

type pattern struct {
	Name     string
	Segments []float64
}

func newPatternCache() *InMemoryCacheManager[libraryPath, pattern] {
	return NewInMemoryCacheManager[libraryPath, pattern]("lin-test", DefaultExpiration, DefaultCleanupInterval)
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := newPatternCache()
	dashed := pattern{Name: "Dashed", Segments: []float64{0.5, -0.25}}
	cache.Set(context.Background(), "acad.lin", dashed, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "acad.lin")
	require.True(t, ok)
	require.Equal(t, dashed, got)
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := newPatternCache()

	got, ok := cache.Get(context.Background(), "acad.lin")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := newPatternCache()

	cache.cache.Set("acad.lin", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "acad.lin")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetMultipleWithNoKeysDoesNothing(t *testing.T) {
	cache := newPatternCache()

	got, ok := cache.GetMultiple(context.Background(), nil)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetMultipleCacheHit(t *testing.T) {
	cache := newPatternCache()
	ctx := context.Background()
	cache.Set(ctx, "acad.lin", pattern{Name: "Dashed"}, DefaultExpiration)
	cache.Set(ctx, "iso.lin", pattern{Name: "ISO02W100"}, DefaultExpiration)

	got, ok := cache.GetMultiple(ctx, []libraryPath{"acad.lin", "iso.lin", "missing.lin"})
	require.True(t, ok)
	require.Equal(t, map[libraryPath]pattern{
		"acad.lin": {Name: "Dashed"},
		"iso.lin":  {Name: "ISO02W100"},
	}, got)
}

func TestInMemoryCacheManager_GetMultipleCacheMiss(t *testing.T) {
	cache := newPatternCache()

	got, ok := cache.GetMultiple(context.Background(), []libraryPath{"acad.lin", "iso.lin"})
	require.False(t, ok)
	require.Nil(t, got)
}

func TestInMemoryCacheManager_GetMultipleWithExistingInvalidValueType(t *testing.T) {
	cache := newPatternCache()

	cache.Set(context.Background(), "acad.lin", pattern{Name: "Dashed"}, DefaultExpiration)
	cache.cache.Set("iso.lin", "not a pattern", DefaultExpiration)

	got, ok := cache.GetMultiple(context.Background(), []libraryPath{"acad.lin", "iso.lin"})
	require.True(t, ok)
	require.Equal(t, map[libraryPath]pattern{"acad.lin": {Name: "Dashed"}}, got)
}

func TestInMemoryCacheManager_GetWithRefresh_WithNoExistingValue(t *testing.T) {
	cache := newPatternCache()

	got, ok := cache.GetWithRefresh(context.Background(), "acad.lin", time.Hour)
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithRefresh_ExtendsTTL(t *testing.T) {
	cache := newPatternCache()
	ctx := context.Background()
	cache.Set(ctx, "acad.lin", pattern{Name: "Dashed"}, time.Millisecond)

	got, ok := cache.GetWithRefresh(ctx, "acad.lin", time.Hour)
	require.True(t, ok)
	require.Equal(t, "Dashed", got.Name)

	time.Sleep(5 * time.Millisecond)
	_, ok = cache.Get(ctx, "acad.lin")
	require.True(t, ok, "refresh should replace the short ttl")
}

func TestInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := newPatternCache()

	err := cache.Delete(context.Background())
	require.NoError(t, err)
}

func TestInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := newPatternCache()
	ctx := context.Background()
	cache.Set(ctx, "acad.lin", pattern{Name: "Dashed"}, DefaultExpiration)

	_, ok := cache.Get(ctx, "acad.lin")
	require.True(t, ok)

	require.NoError(t, cache.Delete(ctx, "acad.lin"))

	_, ok = cache.Get(ctx, "acad.lin")
	require.False(t, ok)
	require.Zero(t, cache.Count())
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := newPatternCache()
	ctx := context.Background()
	cache.Set(ctx, "acad.lin", pattern{Name: "Dashed"}, DefaultExpiration)
	cache.Set(ctx, "iso.lin", pattern{Name: "ISO02W100"}, DefaultExpiration)
	require.Equal(t, 2, cache.Count())

	require.NoError(t, cache.Flush(ctx))

	_, ok := cache.Get(ctx, "acad.lin")
	require.False(t, ok)
	require.Zero(t, cache.Count())
}
