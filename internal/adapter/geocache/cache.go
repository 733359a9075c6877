// Package geocache provides a provider-neutral LRU cache in front of a
// domain.Geocoder.
package geocache

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

// Geocoder wraps another Geocoder with an in-memory LRU cache.
type Geocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// New creates a cache decorator around inner holding at most maxEntries results.
func New(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *Geocoder {
	return &Geocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Geocode returns a cached result for address, or asks the inner geocoder.
// Addresses differing only in case and spacing share an entry.
func (c *Geocoder) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	key := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	if result, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if !result.Empty() {
		c.cache.put(key, result)
	}
	return result, nil
}

// lruCache holds the most recently used results, bounded by maxEntries.
type lruCache struct {
	maxEntries int

	mu    sync.Mutex
	order *list.List // front is most recently used
	byKey map[string]*list.Element
}

type cached struct {
	key    string
	result domain.GeocodingResult
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: max(maxEntries, 1),
		order:      list.New(),
		byKey:      make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (domain.GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return domain.GeocodingResult{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached).result, true
}

func (c *lruCache) put(key string, result domain.GeocodingResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		el.Value.(*cached).result = result
		c.order.MoveToFront(el)
		return
	}

	c.byKey[key] = c.order.PushFront(&cached{key: key, result: result})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byKey, oldest.Value.(*cached).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
