// Package news fetches the latest university news from an RSS feed. Feed
// failures are never fatal: the provider degrades to an empty list.
package news

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/mmcdole/gofeed"

	"github.com/askitmo/askitmo/internal/logger"
)

// Item is one news entry. Link is always present; Title and Text are filled
// when the feed carries them.
type Item struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
	Link  string `json:"link"`
}

// The cache holds a single entry: the whole feed snapshot.
const cacheKey = "latest"

// Provider fetches and caches the news feed.
type Provider struct {
	feedURL string
	parser  *gofeed.Parser
	cache   *ttlcache.Cache[string, []Item]
}

// NewProvider creates a news provider for the given feed URL, caching the
// parsed feed for ttl.
func NewProvider(feedURL string, ttl time.Duration) *Provider {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []Item](ttl),
	)
	go cache.Start()

	return &Provider{
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
		cache:   cache,
	}
}

// Latest returns up to maxItems recent news entries. The feed snapshot is
// cached globally, not per argument; maxItems only slices the cached list.
// Any fetch or parse failure is logged and yields an empty list.
func (p *Provider) Latest(ctx context.Context, maxItems int) []Item {
	if maxItems <= 0 {
		maxItems = 3
	}

	items := p.snapshot(ctx)
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

func (p *Provider) snapshot(ctx context.Context) []Item {
	if item := p.cache.Get(cacheKey); item != nil {
		return item.Value()
	}

	feed, err := p.parser.ParseURLWithContext(p.feedURL, ctx)
	if err != nil {
		logger.Warn("Failed to fetch news feed %s: %v", p.feedURL, err)
		return nil
	}

	var items []Item
	for _, entry := range feed.Items {
		if entry == nil || entry.Link == "" {
			continue
		}
		items = append(items, Item{
			Title: entry.Title,
			Text:  entry.Description,
			Link:  entry.Link,
		})
	}

	p.cache.Set(cacheKey, items, ttlcache.DefaultTTL)
	return items
}
