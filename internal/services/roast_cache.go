package services

import (
	"strings"
	"sync"
	"time"

	"github.com/ratemygit/ratemygit/internal/models"
)

// DefaultRoastCacheTTL is how long a generated roast is reused
const DefaultRoastCacheTTL = 15 * time.Minute

type roastCacheEntry struct {
	response  models.RoastResponse
	createdAt time.Time
}

// RoastCache keeps generated roasts in memory for a fixed window.
// Expired entries are dropped whenever a new entry is written.
type RoastCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]roastCacheEntry
}

func NewRoastCache(ttl time.Duration) *RoastCache {
	if ttl <= 0 {
		ttl = DefaultRoastCacheTTL
	}
	return &RoastCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]roastCacheEntry),
	}
}

// RoastCacheKey derives the cache key for a resource, rating and requested model
func RoastCacheKey(resourceID string, rating models.RatingLevel, model string) string {
	if model == "" {
		model = "default"
	}
	return strings.Join([]string{resourceID, string(rating), strings.ToLower(model)}, "|")
}

// Get returns a copy of the cached response when it is younger than the TTL
func (c *RoastCache) Get(key string) (*models.RoastResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.expired(entry) {
		return nil, false
	}

	response := entry.response
	return &response, true
}

// Set stores a response and sweeps expired entries
func (c *RoastCache) Set(key string, response *models.RoastResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked()
	c.entries[key] = roastCacheEntry{response: *response, createdAt: c.now()}
}

// Sweep drops expired entries and returns how many were removed
func (c *RoastCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

func (c *RoastCache) sweepLocked() int {
	removed := 0
	for k, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included
func (c *RoastCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RoastCache) expired(entry roastCacheEntry) bool {
	return c.now().Sub(entry.createdAt) >= c.ttl
}
