// Package search provides web search with page scraping. Providers are
// best-effort: a search that finds nothing, or fails entirely, yields an
// empty result list rather than an error the request would have to handle.
package search

import "context"

// Result is a single search hit with scraped page text.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Provider defines the interface for web search providers.
type Provider interface {
	// Search performs a web search with the given query, returning up to
	// maxResults hits.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)

	// Name returns the name of the search provider.
	Name() string

	// Validate checks if the provider is properly configured.
	Validate() error
}
