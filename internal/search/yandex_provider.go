package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/askitmo/askitmo/internal/logger"
)

// Yandex region id for Moscow; controls result ranking locale.
const yandexRegionMoscow = "213"

// languageDomains maps search language restrictions to Yandex XML API hosts.
var languageDomains = map[string]string{
	"lang_ru":  "yandex.ru",
	"lang_tr":  "yandex.com.tr",
	"lang_com": "yandex.com",
}

// YandexProvider implements Provider on top of the Yandex Search XML API.
// Found pages are scraped and cleaned before being returned.
type YandexProvider struct {
	folderID  string
	apiKey    string
	languages []string
	client    *http.Client
	scraper   *Scraper
}

// NewYandexProvider creates a Yandex XML search provider. The scraper is used
// to fetch and clean each result page; languages picks the Yandex domains to
// query, in order.
func NewYandexProvider(folderID, apiKey string, languages []string, scraper *Scraper) *YandexProvider {
	if len(languages) == 0 {
		languages = []string{"lang_ru"}
	}
	return &YandexProvider{
		folderID:  folderID,
		apiKey:    apiKey,
		languages: languages,
		client:    &http.Client{},
		scraper:   scraper,
	}
}

// Name returns the provider name
func (p *YandexProvider) Name() string {
	return "yandex_xml"
}

// Validate checks if the provider is properly configured
func (p *YandexProvider) Validate() error {
	if p.folderID == "" {
		return fmt.Errorf("yandex search folder id is not configured")
	}
	if p.apiKey == "" {
		return fmt.Errorf("yandex search API key is not configured")
	}
	return nil
}

// Languages returns the configured language restrictions.
func (p *YandexProvider) Languages() []string {
	return p.languages
}

// yandexXMLResponse mirrors the subset of the XML API response we read.
type yandexXMLResponse struct {
	XMLName xml.Name       `xml:"yandexsearch"`
	Docs    []yandexXMLDoc `xml:"response>results>grouping>group>doc"`
}

type yandexXMLDoc struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
}

// Search queries the Yandex XML API, deduplicates hits by URL, stops once
// maxResults are collected, then scrapes every hit concurrently. Network and
// parse failures are logged and skipped; the returned error is always nil so
// callers treat "no results" as a valid outcome.
func (p *YandexProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	hits := p.collectHits(ctx, query, maxResults)
	if len(hits) == 0 {
		logger.Warn("No relevant Yandex results for query %q", query)
		return nil, nil
	}

	urls := make([]string, len(hits))
	for i, hit := range hits {
		urls[i] = hit.URL
	}
	pages := p.scraper.ScrapeAll(ctx, urls)

	results := make([]Result, 0, len(hits))
	for i, hit := range hits {
		if pages[i].Text == "" {
			continue
		}
		results = append(results, Result{
			Title: hit.Title,
			URL:   hit.URL,
			Text:  pages[i].Text,
		})
	}
	return results, nil
}

func (p *YandexProvider) collectHits(ctx context.Context, query string, maxResults int) []Result {
	var hits []Result
	seen := make(map[string]bool)

	for _, lang := range p.languages {
		domain, ok := languageDomains[lang]
		if !ok {
			logger.Warn("Unknown search language %q, skipping", lang)
			continue
		}

		docs, err := p.queryDomain(ctx, domain, query)
		if err != nil {
			logger.Warn("Yandex search via %s failed: %v", domain, err)
			continue
		}

		for _, doc := range docs {
			u := strings.TrimSpace(doc.URL)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true

			title := strings.TrimSpace(doc.Title)
			if title == "" {
				title = "Без заголовка"
			}
			hits = append(hits, Result{Title: title, URL: u})
			if len(hits) >= maxResults {
				return hits
			}
		}
	}
	return hits
}

func (p *YandexProvider) queryDomain(ctx context.Context, domain, query string) ([]yandexXMLDoc, error) {
	params := url.Values{}
	params.Set("folderid", p.folderID)
	params.Set("apikey", p.apiKey)
	params.Set("query", query)
	params.Set("lr", yandexRegionMoscow)
	params.Set("l10n", "ru")
	params.Set("sortby", "rlv")
	params.Set("filter", "strict")
	params.Set("groupby", "attr=d.mode=deep.groups-on-page=10.docs-in-group=1")
	params.Set("maxpassages", "3")
	params.Set("page", "0")

	searchURL := fmt.Sprintf("https://%s/search/xml?%s", domain, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yandex XML API error (status %d): %s", resp.StatusCode, truncate(string(body), 500))
	}

	var parsed yandexXMLResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse XML response: %w", err)
	}

	return parsed.Docs, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
