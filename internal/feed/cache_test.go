package feed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/traviworld/editorial/internal/feed"
	"github.com/traviworld/editorial/internal/models"
)

func TestCache_FreshnessWindow(t *testing.T) {
	cache := feed.NewCache(5 * time.Minute)
	fetchedAt := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	snapshot := []models.PublicPlacement{{Zone: models.ZoneTrending}}

	cache.Set(models.ZoneTrending, snapshot, fetchedAt)

	testCases := []struct {
		name     string
		now      time.Time
		wantHit  bool
	}{
		{name: "immediately after fetch", now: fetchedAt, wantHit: true},
		{name: "just inside the window", now: fetchedAt.Add(5*time.Minute - time.Second), wantHit: true},
		{name: "exactly at the boundary", now: fetchedAt.Add(5 * time.Minute), wantHit: false},
		{name: "well past the window", now: fetchedAt.Add(time.Hour), wantHit: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := cache.Get(models.ZoneTrending, tc.now)
			assert.Equal(t, tc.wantHit, hit)
			if tc.wantHit {
				assert.Equal(t, snapshot, got)
			}
		})
	}
}

func TestCache_ZonesAreIndependent(t *testing.T) {
	cache := feed.NewCache(5 * time.Minute)
	now := time.Now()

	cache.Set(models.ZoneHomepageHero, []models.PublicPlacement{{Zone: models.ZoneHomepageHero}}, now)

	_, hit := cache.Get(models.ZoneTrending, now)
	assert.False(t, hit)

	_, hit = cache.Get(models.ZoneHomepageHero, now)
	assert.True(t, hit)
}

func TestCache_SetReplacesStaleEntry(t *testing.T) {
	cache := feed.NewCache(5 * time.Minute)
	start := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)

	cache.Set(models.ZoneTrending, []models.PublicPlacement{{Position: 0}}, start)
	later := start.Add(10 * time.Minute)
	cache.Set(models.ZoneTrending, []models.PublicPlacement{{Position: 1}}, later)

	got, hit := cache.Get(models.ZoneTrending, later)
	assert.True(t, hit)
	assert.Equal(t, 1, got[0].Position)
}

func TestCache_EmptySnapshotIsCacheable(t *testing.T) {
	cache := feed.NewCache(5 * time.Minute)
	now := time.Now()

	cache.Set(models.ZoneHomepageFeatured, []models.PublicPlacement{}, now)

	got, hit := cache.Get(models.ZoneHomepageFeatured, now)
	assert.True(t, hit, "an empty zone is a valid snapshot, not a miss")
	assert.Empty(t, got)
}
