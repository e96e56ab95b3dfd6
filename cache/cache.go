// Package cache is the key-based query cache between commands and the API
// client. Reads of the same key share one in-flight request, mutations drop
// every key of the resources they touch, and a failed refresh falls back to
// the last value seen.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"partner-panel/storage"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 60 * time.Second

// Key identifies one query: a resource name plus its parameters.
type Key struct {
	Resource string
	Params   string
}

// NewKey encodes params in sorted order so equal queries share a key.
func NewKey(resource string, params url.Values) Key {
	return Key{Resource: resource, Params: params.Encode()}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "?" + k.Params
}

// Persistent is a second tier that outlives the process.
type Persistent interface {
	Get(key string) (storage.CacheEntry, bool, error)
	Put(entry storage.CacheEntry) error
	DeleteResources(resources ...string) (int64, error)
	Clear() (int64, error)
}

// StaleError carries the refresh failure when an older value was served.
type StaleError struct {
	Err       error
	FetchedAt time.Time
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("showing data from %s: %v", e.FetchedAt.Format("15:04:05"), e.Err)
}

func (e *StaleError) Unwrap() error {
	return e.Err
}

type entry struct {
	resource  string
	value     []byte
	fetchedAt time.Time
}

type Cache struct {
	// Bypass skips fresh hits; results are still stored.
	Bypass bool

	ttl     time.Duration
	persist Persistent
	logger  logrus.FieldLogger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// New returns a cache; persist may be nil for a memory-only cache.
func New(ttl time.Duration, persist Persistent, logger logrus.FieldLogger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{
		ttl:     ttl,
		persist: persist,
		logger:  logger,
		now:     time.Now,
		entries: map[string]entry{},
	}
}

// Fetch returns the cached value for key while it is fresh and otherwise
// calls fn. When fn fails but an older value exists, that value is returned
// with a *StaleError.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	id := key.String()

	cached, found := c.lookup(id)
	if found && !c.Bypass && c.now().Sub(cached.fetchedAt) < c.ttl {
		var value T
		if err := json.Unmarshal(cached.value, &value); err == nil {
			c.logger.WithField("key", id).Debug("cache hit")
			return value, nil
		}
	}

	shared, err, _ := c.group.Do(id, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		c.store(id, entry{resource: key.Resource, value: data, fetchedAt: c.now()})
		return data, nil
	})
	if err != nil {
		if found {
			var value T
			if decodeErr := json.Unmarshal(cached.value, &value); decodeErr == nil {
				return value, &StaleError{Err: err, FetchedAt: cached.fetchedAt}
			}
		}
		return zero, err
	}

	var value T
	if err := json.Unmarshal(shared.([]byte), &value); err != nil {
		return zero, err
	}
	return value, nil
}

func (c *Cache) lookup(id string) (entry, bool) {
	c.mu.Lock()
	cached, ok := c.entries[id]
	c.mu.Unlock()
	if ok || c.persist == nil {
		return cached, ok
	}

	stored, ok, err := c.persist.Get(id)
	if err != nil {
		c.logger.WithError(err).WithField("key", id).Warn("read persistent cache")
		return entry{}, false
	}
	if !ok {
		return entry{}, false
	}
	cached = entry{resource: stored.Resource, value: stored.Value, fetchedAt: stored.FetchedAt}
	c.mu.Lock()
	c.entries[id] = cached
	c.mu.Unlock()
	return cached, true
}

func (c *Cache) store(id string, e entry) {
	c.mu.Lock()
	c.entries[id] = e
	c.mu.Unlock()

	if c.persist == nil {
		return
	}
	err := c.persist.Put(storage.CacheEntry{Key: id, Resource: e.resource, Value: e.value, FetchedAt: e.fetchedAt})
	if err != nil {
		c.logger.WithError(err).WithField("key", id).Warn("write persistent cache")
	}
}

// Invalidate drops every key belonging to the given resources.
func (c *Cache) Invalidate(resources ...string) {
	drop := map[string]struct{}{}
	for _, r := range resources {
		drop[r] = struct{}{}
	}

	c.mu.Lock()
	for id, e := range c.entries {
		if _, ok := drop[e.resource]; ok {
			delete(c.entries, id)
		}
	}
	c.mu.Unlock()

	if c.persist == nil {
		return
	}
	removed, err := c.persist.DeleteResources(resources...)
	if err != nil {
		c.logger.WithError(err).Warn("invalidate persistent cache")
		return
	}
	c.logger.WithFields(logrus.Fields{"resources": resources, "removed": removed}).Debug("cache invalidated")
}

// Clear empties both tiers and reports how many persisted entries were removed.
func (c *Cache) Clear() (int64, error) {
	c.mu.Lock()
	c.entries = map[string]entry{}
	c.mu.Unlock()

	if c.persist == nil {
		return 0, nil
	}
	return c.persist.Clear()
}
