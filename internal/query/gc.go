package query

import (
	"context"
	"time"
)

const minPruneInterval = time.Second

// Prune drops entries that have no subscribers, have no run in flight and were
// last used at least the GC time before now. It returns how many it removed.
func (c *Client) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for hash, e := range c.entries {
		if len(e.listeners) > 0 || e.flight != nil {
			continue
		}
		if now.Sub(e.lastAccess) >= c.gcTime {
			delete(c.entries, hash)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug().Int("removed", removed).Msg("pruned query cache")
	}
	return removed
}

// Run prunes the cache periodically until ctx is done.
func (c *Client) Run(ctx context.Context) {
	interval := max(c.gcTime/2, minPruneInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Prune(c.now())
		}
	}
}
