// Package completioncache maps a freshly-minted opaque identifier to the
// rich completion datum produced during the last completion call, so
// completionItem/resolve can look the full datum back up from the id the
// client echoes. The whole cache is replaced wholesale on the next
// completion request. Identifiers are UUIDs (github.com/google/uuid).
package completioncache

import (
	"sync"

	"github.com/google/uuid"
)

// Cache holds the datum set for the most recent completion call.
type Cache[D any] struct {
	mu   sync.Mutex
	data map[string]D
}

// New returns an empty Cache.
func New[D any]() *Cache[D] {
	return &Cache[D]{data: make(map[string]D)}
}

// Reset replaces the entire cache contents; call it at the start of each
// new completion request so stale resolve identifiers from the previous
// request stop resolving.
func (c *Cache[D]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]D)
}

// Put mints a fresh UUID identifier for datum and stores it.
func (c *Cache[D]) Put(datum D) string {
	id := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id] = datum
	return id
}

// Get looks up a datum by identifier. The bool reports whether it was
// found; a miss means the client is resolving an item from a completion
// request the cache has since moved past, and the caller should degrade
// gracefully rather than panic.
func (c *Cache[D]) Get(id string) (D, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[id]
	return d, ok
}
