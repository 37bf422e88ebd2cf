package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
)

type cachedDay struct {
	Weekday string   `json:"weekday"`
	Items   []string `json:"items"`
}

func TestMemoryCacheRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryCacheRepository(time.Minute)
	ctx := context.Background()

	var miss cachedDay
	err := repo.Get(ctx, "schedule:v1:1", &miss)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "schedule:v1:1", cachedDay{Weekday: "Monday", Items: []string{"Anatomy"}}, 0))

	var hit cachedDay
	require.NoError(t, repo.Get(ctx, "schedule:v1:1", &hit))
	assert.Equal(t, "Monday", hit.Weekday)
	assert.Equal(t, []string{"Anatomy"}, hit.Items)

	hit.Items[0] = "mutated"
	var again cachedDay
	require.NoError(t, repo.Get(ctx, "schedule:v1:1", &again))
	assert.Equal(t, "Anatomy", again.Items[0])
}

func TestMemoryCacheRepositoryExpires(t *testing.T) {
	repo := NewMemoryCacheRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var dest string
	assert.True(t, errors.Is(repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss))
}

func TestMemoryCacheRepositoryDeleteByPattern(t *testing.T) {
	repo := NewMemoryCacheRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "schedule:v1:1", 1, 0))
	require.NoError(t, repo.Set(ctx, "schedule:v1:2", 2, 0))
	require.NoError(t, repo.Set(ctx, "events:v1:1", 3, 0))

	require.NoError(t, repo.DeleteByPattern(ctx, "schedule:*"))
	assert.Equal(t, 1, repo.Len())

	var dest int
	require.NoError(t, repo.Get(ctx, "events:v1:1", &dest))
	assert.Equal(t, 3, dest)
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest string
	assert.True(t, errors.Is(repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestMemoryCacheRepositoryPrefixPatternCrossesSlashes(t *testing.T) {
	repo := NewMemoryCacheRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "schedule:v1:1/2024", 1, 0))
	require.NoError(t, repo.Set(ctx, "schedule:v2:1", 2, 0))
	require.NoError(t, repo.DeleteByPattern(ctx, "schedule:v1:*"))
	assert.Equal(t, 1, repo.Len())
}
