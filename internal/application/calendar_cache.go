package application

import (
	"sync"
	"time"
)

// monthCache stores recently assembled calendar months to avoid repeated
// recurrence expansion for identical month queries while schedules remain
// unchanged.
type monthCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]monthCacheEntry
}

type monthCacheEntry struct {
	month     CalendarMonth
	expiresAt time.Time
}

func newMonthCache(ttl time.Duration, maxEntries int, now func() time.Time) *monthCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 24
	}
	if now == nil {
		now = time.Now
	}
	return &monthCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]monthCacheEntry),
	}
}

func (c *monthCache) Get(key string) (CalendarMonth, bool) {
	if c == nil {
		return CalendarMonth{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return CalendarMonth{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return CalendarMonth{}, false
	}
	return cloneCalendarMonth(entry.month), true
}

func (c *monthCache) Store(key string, month CalendarMonth) {
	if c == nil {
		return
	}
	cloned := cloneCalendarMonth(month)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = monthCacheEntry{month: cloned, expiresAt: expiry}
}

func (c *monthCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]monthCacheEntry)
	c.mu.Unlock()
}

func (c *monthCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *monthCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneCalendarMonth(month CalendarMonth) CalendarMonth {
	out := CalendarMonth{
		ByDate:    make(map[string][]Schedule, len(month.ByDate)),
		Schedules: make([]Schedule, len(month.Schedules)),
	}
	copy(out.Schedules, month.Schedules)
	for key, schedules := range month.ByDate {
		day := make([]Schedule, len(schedules))
		copy(day, schedules)
		out.ByDate[key] = day
	}
	return out
}
