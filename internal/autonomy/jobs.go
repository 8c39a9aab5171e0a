// Package autonomy runs the scheduled curation jobs: trending zone refills,
// placement window sweeps, SEO audit passes and search reindexing.
package autonomy

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/traviworld/editorial/internal/database"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/models"
	"github.com/traviworld/editorial/internal/search"
	"github.com/traviworld/editorial/internal/seo"
	"github.com/traviworld/editorial/internal/views"
	"github.com/traviworld/editorial/internal/zonecache"
)

const auditRetention = 90 * 24 * time.Hour

// Jobs implements the autonomy job bodies. The worker schedules them; the
// API triggers audit runs on demand through the same methods.
type Jobs struct {
	repo      *database.Repository
	views     *views.Counter
	zoneCache *zonecache.Cache
	search    *search.Client // nil when search is disabled
	auditor   *seo.Auditor
	logger    logger.Logger

	mu        sync.Mutex
	lastSweep time.Time
}

// NewJobs creates the job set. The first window sweep covers events from
// construction time onward.
func NewJobs(
	repo *database.Repository,
	viewCounter *views.Counter,
	zoneCache *zonecache.Cache,
	searchClient *search.Client,
	auditor *seo.Auditor,
	log logger.Logger,
) *Jobs {
	return &Jobs{
		repo:      repo,
		views:     viewCounter,
		zoneCache: zoneCache,
		search:    searchClient,
		auditor:   auditor,
		logger:    log,
		lastSweep: time.Now().UTC(),
	}
}

// RunTrending refills every auto-mode zone from the view counters: published
// content is ranked by views over the policy's lookback window, thresholded
// at min_views and capped at max_items. Editor-managed placements are left
// alone. Returns the number of placements written.
func (j *Jobs) RunTrending(ctx context.Context) (int, error) {
	policies, err := j.repo.ListAutoZonePolicies(ctx)
	if err != nil {
		return 0, fmt.Errorf("list auto zone policies: %w", err)
	}
	if len(policies) == 0 {
		return 0, nil
	}

	contents, err := j.repo.ListPublishedContent(ctx)
	if err != nil {
		return 0, fmt.Errorf("list published content: %w", err)
	}

	ids := make([]uuid.UUID, len(contents))
	for i := range contents {
		ids[i] = contents[i].ID
	}

	now := time.Now().UTC()
	placed := 0
	for i := range policies {
		policy := &policies[i]

		counts, err := j.views.BulkCountSince(ctx, ids, policy.LookbackDays(), now)
		if err != nil {
			return placed, fmt.Errorf("count views for zone %s: %w", policy.Zone, err)
		}

		picked := rankByViews(contents, counts, policy)

		inserted, err := j.repo.ReplaceAutoPlacements(ctx, policy.Zone, picked)
		if err != nil {
			return placed, fmt.Errorf("replace auto placements in %s: %w", policy.Zone, err)
		}
		placed += inserted

		_ = j.zoneCache.Invalidate(ctx, policy.Zone)

		j.logger.Info("Trending zone refilled",
			logger.String("zone", policy.Zone),
			logger.Int("candidates", len(picked)),
			logger.Int("placed", inserted),
		)
	}

	return placed, nil
}

// rankByViews orders content by view count descending and keeps the items
// clearing the policy threshold, up to the policy cap. contents arrive
// newest-published first, which breaks ties.
func rankByViews(contents []models.Content, counts map[uuid.UUID]int64, policy *models.ZonePolicy) []uuid.UUID {
	type candidate struct {
		id    uuid.UUID
		count int64
	}

	candidates := make([]candidate, 0, len(contents))
	for i := range contents {
		count := counts[contents[i].ID]
		if count < int64(policy.MinViews) {
			continue
		}
		candidates = append(candidates, candidate{id: contents[i].ID, count: count})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].count > candidates[b].count
	})

	if len(candidates) > policy.MaxItems {
		candidates = candidates[:policy.MaxItems]
	}

	picked := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		picked[i] = candidates[i].id
	}

	return picked
}

// RunWindowSweep invalidates the cache of zones where a placement window
// opened or closed since the last sweep, so scheduled placements appear and
// expire ahead of cache TTL. Returns the swept zones.
func (j *Jobs) RunWindowSweep(ctx context.Context) ([]string, error) {
	now := time.Now().UTC()

	j.mu.Lock()
	since := j.lastSweep
	j.mu.Unlock()

	zones, err := j.repo.ZonesWithWindowEvents(ctx, since, now)
	if err != nil {
		return nil, fmt.Errorf("find window events: %w", err)
	}

	if len(zones) > 0 {
		if err := j.zoneCache.Invalidate(ctx, zones...); err != nil {
			return nil, fmt.Errorf("invalidate swept zones: %w", err)
		}
		j.logger.Info("Placement windows crossed",
			logger.Strings("zones", zones),
		)
	}

	j.mu.Lock()
	j.lastSweep = now
	j.mu.Unlock()

	return zones, nil
}

// RunSEOAudit audits every published page and records the results. Pages
// that cannot be fetched are logged and skipped; old audit rows past the
// retention window are pruned. Returns the number of pages audited.
func (j *Jobs) RunSEOAudit(ctx context.Context) (int, error) {
	contents, err := j.repo.ListPublishedContent(ctx)
	if err != nil {
		return 0, fmt.Errorf("list published content: %w", err)
	}

	now := time.Now().UTC()
	audited := 0
	for i := range contents {
		content := &contents[i]

		audit, err := j.auditor.Audit(ctx, content, now)
		if err != nil {
			if ctx.Err() != nil {
				return audited, ctx.Err()
			}
			j.logger.Warn("Failed to audit page",
				logger.String("content_id", content.ID.String()),
				logger.String("slug", content.Slug),
				logger.Error(err),
			)
			continue
		}

		if _, err := j.repo.CreateSEOAudit(ctx, audit.ContentID, audit.URL, audit.StatusCode, audit.Issues); err != nil {
			return audited, fmt.Errorf("record audit for %s: %w", content.Slug, err)
		}
		audited++

		if !audit.Clean() {
			j.logger.Info("Page has SEO issues",
				logger.String("url", audit.URL),
				logger.Strings("issues", audit.Issues),
			)
		}
	}

	pruned, err := j.repo.PruneSEOAudits(ctx, now.Add(-auditRetention))
	if err != nil {
		j.logger.Warn("Failed to prune old audits", logger.Error(err))
	} else if pruned > 0 {
		j.logger.Info("Pruned old audits", logger.Int64("rows", pruned))
	}

	return audited, nil
}

// RunReindex rebuilds the search index from every published content item.
// Returns the number of documents indexed; a disabled search backend makes
// this a no-op.
func (j *Jobs) RunReindex(ctx context.Context) (int, error) {
	if j.search == nil {
		return 0, nil
	}

	contents, err := j.repo.ListPublishedContent(ctx)
	if err != nil {
		return 0, fmt.Errorf("list published content: %w", err)
	}

	docs := make([]*models.Content, len(contents))
	for i := range contents {
		docs[i] = &contents[i]
	}

	if err := j.search.BulkIndex(ctx, docs); err != nil {
		return 0, fmt.Errorf("bulk index: %w", err)
	}

	return len(docs), nil
}
