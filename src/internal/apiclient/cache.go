package apiclient

import (
	"sync"
	"time"
)

// Cache keeps the last backup listing so repeated renders of the backup
// section do not hit the remote API. Any call that changes the set of
// backups clears it.
//
// All methods are safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	backups  []Backup
	storedAt time.Time
	now      func() time.Time
}

// NewCache creates a new cache instance with the specified TTL.
//
// If ttl is 0, cached values never expire.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// GetBackups returns a copy of the cached listing and true if it is present
// and fresh.
func (c *Cache) GetBackups() ([]Backup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.backups == nil {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(c.storedAt) > c.ttl {
		return nil, false
	}
	out := make([]Backup, len(c.backups))
	copy(out, c.backups)
	return out, true
}

// SetBackups stores a copy of the listing.
func (c *Cache) SetBackups(backups []Backup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backups = make([]Backup, len(backups))
	copy(c.backups, backups)
	c.storedAt = c.now()
}

// Clear removes all cached data.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backups = nil
}
