package expr

import "sync"

// Cache memoizes compiled closures keyed by the tree's structural signature
// and the caller's slot binding. One cache is typically shared by every
// component of a model; construction is cheap and teardown is garbage
// collection. Safe for concurrent use.
type Cache struct {
	mu sync.Mutex
	m  map[string]Fn
}

func NewCache() *Cache { return &Cache{m: make(map[string]Fn)} }

// Compile returns the cached closure for (binding, tree) or compiles and
// stores one. The binding key must identify the environment layout the slot
// resolver encodes, otherwise distinct layouts would alias.
func (c *Cache) Compile(n Node, binding string, slot Slot) (Fn, error) {
	key := binding + "|" + Signature(n)
	c.mu.Lock()
	if f, ok := c.m[key]; ok {
		c.mu.Unlock()
		return f, nil
	}
	c.mu.Unlock()
	f, err := Compile(n, slot)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.m[key] = f
	c.mu.Unlock()
	return f, nil
}

// Len reports the number of cached closures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
