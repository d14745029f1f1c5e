package portfolio

import (
	"sync"
	"time"
)

const defaultCacheEntries = 512

type cachedResponse struct {
	body    []byte
	fetched time.Time
}

// ResponseCache is an in-memory TTL cache of upstream blog responses,
// written through to the Store. It implements blog.Cache. At most
// MaxEntries responses are kept; the oldest go first.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cachedResponse
	ttl     time.Duration
	store   *Store
	now     func() time.Time

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup

	// MaxEntries bounds memory and the store (default 512).
	MaxEntries int

	// OnError is called when the backing store fails. Store failures only
	// degrade the cache, they never fail a request.
	OnError func(error)
}

// NewResponseCache creates a ResponseCache backed by s.
func NewResponseCache(s *Store, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries:    make(map[string]cachedResponse),
		ttl:        ttl,
		store:      s,
		now:        time.Now,
		stop:       make(chan struct{}),
		MaxEntries: defaultCacheEntries,
	}
}

func (c *ResponseCache) fresh(e cachedResponse) bool {
	return c.now().Sub(e.fetched) < c.ttl
}

// Get returns a fresh body for key. On a memory miss it falls back to the
// store and promotes a fresh row into memory.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.fresh(e) {
		return e.body, true
	}
	if c.store == nil {
		return nil, false
	}

	body, fetched, err := c.store.GetResponse(key)
	if err != nil {
		if !IsNotFound(err) {
			c.report(err)
		}
		return nil, false
	}
	e = cachedResponse{body: body, fetched: fetched}
	if !c.fresh(e) {
		return nil, false
	}
	c.mu.Lock()
	c.insert(key, e)
	c.mu.Unlock()
	return body, true
}

// Put stores body under key.
func (c *ResponseCache) Put(key string, body []byte) {
	e := cachedResponse{body: body, fetched: c.now()}
	c.mu.Lock()
	c.insert(key, e)
	c.mu.Unlock()
	if c.store == nil {
		return
	}
	if err := c.store.SaveResponse(key, body, e.fetched); err != nil {
		c.report(err)
		return
	}
	if _, err := c.store.TrimResponses(c.MaxEntries); err != nil {
		c.report(err)
	}
}

// insert adds e, evicting the oldest entry when full. Callers hold c.mu.
func (c *ResponseCache) insert(key string, e cachedResponse) {
	if _, ok := c.entries[key]; !ok && c.MaxEntries > 0 && len(c.entries) >= c.MaxEntries {
		var oldest string
		var at time.Time
		for k, v := range c.entries {
			if oldest == "" || v.fetched.Before(at) {
				oldest, at = k, v.fetched
			}
		}
		delete(c.entries, oldest)
	}
	c.entries[key] = e
}

// Len returns the number of responses held in memory.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate clears the in-memory entries so the next read goes to the store.
func (c *ResponseCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cachedResponse)
	c.mu.Unlock()
}

// Prune drops expired entries from memory and the store.
func (c *ResponseCache) Prune() (int64, error) {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.entries {
		if e.fetched.Before(cutoff) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	if c.store == nil {
		return 0, nil
	}
	return c.store.DeleteResponsesBefore(cutoff)
}

// StartPruning prunes every interval until Stop is called.
func (c *ResponseCache) StartPruning(interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if _, err := c.Prune(); err != nil {
					c.report(err)
				}
			}
		}
	}()
}

// Stop ends the prune loop and waits for it to exit. It is safe to call
// more than once.
func (c *ResponseCache) Stop() {
	c.once.Do(func() { close(c.stop) })
	c.wg.Wait()
}

func (c *ResponseCache) report(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}
