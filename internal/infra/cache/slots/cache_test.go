package slots

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, 5*time.Minute), mr
}

var day = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

func TestGet_Miss(t *testing.T) {
	cache, _ := newCache(t)

	slots, hit, err := cache.Get(context.Background(), 1, 7, day, 3)

	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, slots)
}

func TestSetAndGet(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	want := []types.TimeString{types.MustTimeString("08:00"), types.MustTimeString("08:30")}

	require.NoError(t, cache.Set(ctx, 1, 7, day, 3, 0, want))

	got, hit, err := cache.Get(ctx, 1, 7, day, 3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	assert.True(t, mr.Exists("slots:1:7:2025-03-12"))
	assert.Equal(t, 5*time.Minute, mr.TTL("slots:1:7:2025-03-12"))
}

func TestSet_EmptyListIsAHit(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 1, 7, day, 3, 0, nil))

	got, hit, err := cache.Get(ctx, 1, 7, day, 3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, got)
}

func TestInvalidateDay(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()
	slots := []types.TimeString{types.MustTimeString("10:00")}

	require.NoError(t, cache.Set(ctx, 1, 7, day, 3, 0, slots))
	require.NoError(t, cache.Set(ctx, 1, 7, day, 4, 0, slots))
	require.NoError(t, cache.Set(ctx, 1, 7, day.AddDate(0, 0, 1), 3, 0, slots))

	require.NoError(t, cache.InvalidateDay(ctx, 1, 7, day))

	_, hit, _ := cache.Get(ctx, 1, 7, day, 3)
	assert.False(t, hit)
	_, hit, _ = cache.Get(ctx, 1, 7, day, 4)
	assert.False(t, hit)
	_, hit, _ = cache.Get(ctx, 1, 7, day.AddDate(0, 0, 1), 3)
	assert.True(t, hit, "другие дни не затрагиваются")
}

func TestInvalidateStaff(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	slots := []types.TimeString{types.MustTimeString("10:00")}

	require.NoError(t, cache.Set(ctx, 1, 7, day, 3, 0, slots))
	require.NoError(t, cache.Set(ctx, 1, 7, day.AddDate(0, 0, 1), 3, 0, slots))
	require.NoError(t, cache.Set(ctx, 1, 8, day, 3, 0, slots))

	require.NoError(t, cache.InvalidateStaff(ctx, 1, 7))

	assert.False(t, mr.Exists("slots:1:7:2025-03-12"))
	assert.False(t, mr.Exists("slots:1:7:2025-03-13"))
	assert.True(t, mr.Exists("slots:1:8:2025-03-12"))
}

func TestSet_SkippedAfterInvalidateDay(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	stale := []types.TimeString{types.MustTimeString("10:00"), types.MustTimeString("10:30")}

	// читатель берет поколение перед запросом в БД
	gen, err := cache.Generation(ctx, 1, 7, day)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	// запись создана, день сброшен до того, как читатель положил слоты
	require.NoError(t, cache.InvalidateDay(ctx, 1, 7, day))

	require.NoError(t, cache.Set(ctx, 1, 7, day, 3, gen, stale))

	_, hit, err := cache.Get(ctx, 1, 7, day, 3)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("slots:1:7:2025-03-12"))

	// следующий читатель с новым поколением пишет в кэш
	gen, err = cache.Generation(ctx, 1, 7, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	fresh := []types.TimeString{types.MustTimeString("10:30")}
	require.NoError(t, cache.Set(ctx, 1, 7, day, 3, gen, fresh))

	got, hit, err := cache.Get(ctx, 1, 7, day, 3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, fresh, got)
}

func TestSet_SkippedAfterInvalidateStaff(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()
	slots := []types.TimeString{types.MustTimeString("10:00")}

	gen, err := cache.Generation(ctx, 1, 7, day)
	require.NoError(t, err)

	require.NoError(t, cache.InvalidateStaff(ctx, 1, 7))
	require.NoError(t, cache.Set(ctx, 1, 7, day, 3, gen, slots))

	_, hit, err := cache.Get(ctx, 1, 7, day, 3)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInvalidateDay_BumpsOnlyThatDay(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.InvalidateDay(ctx, 1, 7, day))
	require.NoError(t, cache.InvalidateDay(ctx, 1, 7, day))

	gen, err := cache.Generation(ctx, 1, 7, day)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)

	other, err := cache.Generation(ctx, 1, 7, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), other)

	assert.Equal(t, generationTTL, mr.TTL("slots:gen:1:7:2025-03-12"))
}

func TestGet_RedisDown(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	_, hit, err := cache.Get(context.Background(), 1, 7, day, 3)

	assert.ErrorIs(t, err, ErrCacheRead)
	assert.False(t, hit)
}
