package apptest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Cache is an in-memory shared.RecordCache that stores JSON like the Redis
// implementation does and records evictions.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte

	Loads   int
	Hits    int
	Evicted []string
	Fail    error
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func key(entity string, id int64) string {
	return fmt.Sprintf("%s:%d", entity, id)
}

// Load fills dest from a stored entry.
func (c *Cache) Load(_ context.Context, entity string, id int64, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Loads++
	if c.Fail != nil {
		return false, c.Fail
	}
	data, ok := c.entries[key(entity, id)]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	c.Hits++
	return true, nil
}

// Store saves value as JSON.
func (c *Cache) Store(_ context.Context, entity string, id int64, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Fail != nil {
		return c.Fail
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key(entity, id)] = data
	return nil
}

// Evict drops one entry.
func (c *Cache) Evict(_ context.Context, entity string, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Evicted = append(c.Evicted, key(entity, id))
	if c.Fail != nil {
		return c.Fail
	}
	delete(c.entries, key(entity, id))
	return nil
}

// EvictAll drops every entry of entity.
func (c *Cache) EvictAll(_ context.Context, entity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Evicted = append(c.Evicted, entity+":*")
	if c.Fail != nil {
		return c.Fail
	}
	for k := range c.entries {
		if strings.HasPrefix(k, entity+":") {
			delete(c.entries, k)
		}
	}
	return nil
}

// Has reports whether an entry is cached.
func (c *Cache) Has(entity string, id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key(entity, id)]
	return ok
}
