package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "building-photos", cfg.PhotoBucket)
	assert.Equal(t, "/storage/v1/object/upload/sign", cfg.StorageSignPath)
	assert.Equal(t, "/storage/v1/object/public", cfg.StoragePublicPath)
	assert.Equal(t, 5, cfg.Search.PageSize)
	assert.Equal(t, 10.0, cfg.Search.DefaultRadiusKm)
	assert.Equal(t, 10000.0, cfg.Search.ListDefaultRadiusKm)
	assert.Equal(t, 1000, cfg.Reviews.CommentMaxLength)
	assert.Equal(t, 5*time.Minute, cfg.CategoryCacheTTL)
	assert.Equal(t, time.Hour, cfg.ReviewCountCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_PAGE_SIZE", "12")
	t.Setenv("REVIEW_PAGE_SIZE", "-3")
	t.Setenv("SEARCH_DEFAULT_RADIUS_KM", "2.5")
	t.Setenv("ALLOW_CROSS_SITE_DEV", "TRUE")
	t.Setenv("SLOW_QUERY_THRESHOLD", "2s")
	t.Setenv("STORAGE_SIGN_PATH", "/object/sign")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 12, cfg.Search.PageSize)
	assert.Equal(t, 5, cfg.Reviews.PageSize)
	assert.Equal(t, 2.5, cfg.Search.DefaultRadiusKm)
	assert.True(t, cfg.AllowCrossSiteDev)
	assert.Equal(t, 2*time.Second, cfg.SlowQueryThreshold)
	assert.Equal(t, "/object/sign", cfg.StorageSignPath)
}
