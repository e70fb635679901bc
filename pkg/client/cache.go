package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
)

// CacheKey canonicalizes a path and query into one cache key. Encode sorts
// the query parameters, so logically equal requests share an entry.
func CacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

type entryState int

const (
	stateLoading entryState = iota
	stateReady
	stateFailed
)

type entry struct {
	state entryState
	data  json.RawMessage
	err   error
	done  chan struct{}
}

// Cache is a read-through cache over the REST client. Entries live until
// invalidated; invalidation drops the bytes so the next Get refetches. It is
// the invalidate-and-refetch half of the data-sync layer, the realtime frames
// drive the invalidations.
type Cache struct {
	client *Client

	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache returns an empty cache backed by c.
func NewCache(c *Client) *Cache {
	return &Cache{client: c, entries: make(map[string]*entry)}
}

// Get returns the cached body for path+query, fetching it on a miss.
// Concurrent callers for the same key share one in-flight fetch. A failed
// fetch is not cached: the next Get retries.
func (c *Cache) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	key := CacheKey(path, query)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if e.state == stateLoading {
			done := e.done
			c.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			c.mu.Lock()
		}
		// Re-read: the entry may have been invalidated or replaced
		// while we waited.
		if e, ok := c.entries[key]; ok && e.state == stateReady {
			data := e.data
			c.mu.Unlock()
			return data, nil
		}
		c.mu.Unlock()
		return c.Get(ctx, path, query)
	}

	e := &entry{state: stateLoading, done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	data, err := c.client.GetRaw(ctx, path, query)

	c.mu.Lock()
	if c.entries[key] == e {
		if err != nil {
			delete(c.entries, key)
			e.state = stateFailed
			e.err = err
		} else {
			e.state = stateReady
			e.data = data
		}
	}
	close(e.done)
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return data, nil
}

// GetInto fetches like Get and decodes the body into out.
func (c *Cache) GetInto(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Loading reports whether a fetch for path+query is in flight.
func (c *Cache) Loading(path string, query url.Values) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[CacheKey(path, query)]
	return ok && e.state == stateLoading
}

// Invalidate drops the entry for exactly path+query.
func (c *Cache) Invalidate(path string, query url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, CacheKey(path, query))
}

// InvalidatePrefix drops every entry whose path component matches prefix,
// regardless of query string. In-flight fetches are left to finish; their
// results are discarded because the entry pointer no longer matches.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		path := key
		if i := strings.IndexByte(key, '?'); i >= 0 {
			path = key[:i]
		}
		if strings.HasPrefix(path, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries, in-flight ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
