package api

import (
	"sync"
	"time"

	"github.com/sadopc/stempel/internal/block"
)

// cache holds the last read snapshots. Mutating calls clear it before their
// request is sent, so a read after a mutation always goes to the server.
type cache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	current   *block.Block
	currentAt time.Time
	all       []block.Block
	allAt     time.Time
	hasAll    bool
}

func (c *cache) getCurrent() (block.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || !c.fresh(c.currentAt) {
		return block.Block{}, false
	}
	return *c.current, true
}

func (c *cache) putCurrent(b block.Block) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = &b
	c.currentAt = c.now()
}

func (c *cache) getAll() ([]block.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasAll || !c.fresh(c.allAt) {
		return nil, false
	}
	return append([]block.Block(nil), c.all...), true
}

func (c *cache) putAll(blocks []block.Block) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append([]block.Block(nil), blocks...)
	c.allAt = c.now()
	c.hasAll = true
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	c.all = nil
	c.hasAll = false
}

func (c *cache) empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == nil && !c.hasAll
}

// fresh must be called with mu held.
func (c *cache) fresh(at time.Time) bool {
	return c.now().Sub(at) < c.ttl
}
