package cache

import (
	"sort"
	"sync"

	"github.com/equidrill/drillbook/internal/drill"
)

// SummaryCache caches drill listing rows so repeated list requests (sidebar
// refreshes, websocket clients joining) don't hit the storage backend.
// It is warm once filled from a full listing; saves and deletes keep it
// current after that.
type SummaryCache struct {
	m         sync.Mutex
	warm      bool
	summaries map[string]drill.Summary
}

func NewSummaryCache() *SummaryCache {
	return &SummaryCache{
		summaries: make(map[string]drill.Summary),
	}
}

// Warm reports whether the cache has been filled from a full listing.
func (c *SummaryCache) Warm() bool {
	c.m.Lock()
	defer c.m.Unlock()
	return c.warm
}

// Fill replaces the cache contents with a full listing and marks it warm.
func (c *SummaryCache) Fill(summaries []drill.Summary) {
	c.m.Lock()
	defer c.m.Unlock()
	c.summaries = make(map[string]drill.Summary, len(summaries))
	for _, s := range summaries {
		c.summaries[s.ID] = s
	}
	c.warm = true
}

// Set inserts or updates a single listing row.
func (c *SummaryCache) Set(s drill.Summary) {
	c.m.Lock()
	defer c.m.Unlock()
	c.summaries[s.ID] = s
}

// Get returns the listing row for a drill ID.
func (c *SummaryCache) Get(id string) (drill.Summary, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	s, ok := c.summaries[id]
	return s, ok
}

// Delete removes a drill's listing row.
func (c *SummaryCache) Delete(id string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.summaries, id)
}

// All returns every cached row, newest first.
func (c *SummaryCache) All() []drill.Summary {
	c.m.Lock()
	defer c.m.Unlock()
	out := make([]drill.Summary, 0, len(c.summaries))
	for _, s := range c.summaries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Reset empties the cache and marks it cold.
func (c *SummaryCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.summaries = make(map[string]drill.Summary)
	c.warm = false
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
