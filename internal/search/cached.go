package search

import (
	"context"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"

	"github.com/askitmo/askitmo/internal/logger"
)

// cachedProvider is a read-through decorator: hits are served from an
// in-memory TTL cache, misses go to the wrapped provider and are stored.
// Concurrent misses on the same key may recompute the same value; that is
// accepted.
type cachedProvider struct {
	inner    Provider
	cache    *ttlcache.Cache[uint64, []Result]
	keyParts []string
}

// Cached wraps a provider with a read-through TTL cache. Extra key parts
// (e.g. the provider's language restrictions) are folded into every cache
// key alongside the query and result count.
func Cached(inner Provider, ttl time.Duration, keyParts ...string) Provider {
	cache := ttlcache.New(
		ttlcache.WithTTL[uint64, []Result](ttl),
	)
	go cache.Start()

	return &cachedProvider{
		inner:    inner,
		cache:    cache,
		keyParts: keyParts,
	}
}

func (c *cachedProvider) Name() string {
	return c.inner.Name()
}

func (c *cachedProvider) Validate() error {
	return c.inner.Validate()
}

func (c *cachedProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	key := c.key(query, maxResults)

	if item := c.cache.Get(key); item != nil {
		logger.Debug("Search cache hit for query %q", query)
		return item.Value(), nil
	}

	results, err := c.inner.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, results, ttlcache.DefaultTTL)
	return results, nil
}

func (c *cachedProvider) key(query string, maxResults int) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(query)
	_, _ = h.WriteString("|")
	_, _ = h.Write([]byte{byte(maxResults)})
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(strings.Join(c.keyParts, ","))
	return h.Sum64()
}
