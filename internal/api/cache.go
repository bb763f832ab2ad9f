package api

import (
	"os"
	"strconv"

	lru "github.com/hashicorp/golang-lru"

	"github.com/projscore/projscore/pkg/scoring"
)

// ReportCache is a thread-safe LRU cache for loaded reports. Reports are
// immutable once stored, so entries never go stale.
type ReportCache struct {
	entries *lru.Cache
}

// NewReportCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 128.
func NewReportCache(maxSize int) *ReportCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New(maxSize)
	return &ReportCache{entries: c}
}

// NewReportCacheFromEnv creates a cache with size from the REPORT_CACHE_SIZE env var.
func NewReportCacheFromEnv() *ReportCache {
	size := 128
	if v := os.Getenv("REPORT_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewReportCache(size)
}

// Get retrieves a report from the cache, or nil if not found.
func (c *ReportCache) Get(id string) *scoring.Report {
	v, ok := c.entries.Get(id)
	if !ok {
		return nil
	}
	return v.(*scoring.Report)
}

// Put adds a report to the cache, evicting the least recently used if full.
func (c *ReportCache) Put(id string, report *scoring.Report) {
	c.entries.Add(id, report)
}

// Len returns the number of cached reports.
func (c *ReportCache) Len() int {
	return c.entries.Len()
}
