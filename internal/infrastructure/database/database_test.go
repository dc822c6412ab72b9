package database

import (
	"context"
	"testing"
	"time"

	"villfinder-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate_SQLite(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"categories", "rentals", "food_establishments", "building_photos", "reviews", "rental_favorites", "food_establishment_favorites", "rental_categories", "food_establishment_categories", "user_profiles"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&domain.Review{}, "idx_review_author_target"))
}

func TestPinger(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	assert.NoError(t, (&Pinger{DB: db}).Ping())

	var nilPinger *Pinger
	assert.NoError(t, nilPinger.Ping())
}

func TestHooks_PassThrough(t *testing.T) {
	h := &Hooks{Threshold: time.Hour}
	ctx, err := h.Before(context.Background(), "SELECT 1")
	require.NoError(t, err)
	_, ok := ctx.Value(beginKey{}).(time.Time)
	assert.True(t, ok)

	out, err := h.After(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, ctx, out)

	// After without Before must not panic.
	_, err = h.After(context.Background(), "SELECT 1")
	assert.NoError(t, err)
}

func TestHooks_DefaultThreshold(t *testing.T) {
	h := &Hooks{}
	assert.False(t, h.slow(100*time.Millisecond))
	assert.True(t, h.slow(time.Second))
}
