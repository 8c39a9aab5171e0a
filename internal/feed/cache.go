package feed

import (
	"sync"
	"time"

	"github.com/traviworld/editorial/internal/models"
)

type cacheEntry struct {
	placements []models.PublicPlacement
	fetchedAt  time.Time
}

// Cache is a TTL cache of zone snapshots keyed by zone name. Stale entries
// are replaced on the next fetch rather than evicted eagerly; serving
// editorial content up to one TTL old is acceptable.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) fresh(entry cacheEntry, now time.Time) bool {
	return now.Sub(entry.fetchedAt) < c.ttl
}

// Get returns the cached snapshot for a zone if one exists and is still
// fresh at now.
func (c *Cache) Get(zone string, now time.Time) ([]models.PublicPlacement, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[zone]
	if !ok || !c.fresh(entry, now) {
		return nil, false
	}
	return entry.placements, true
}

// Set stores a zone snapshot fetched at now.
func (c *Cache) Set(zone string, placements []models.PublicPlacement, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[zone] = cacheEntry{
		placements: placements,
		fetchedAt:  now,
	}
}
