package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration. Values are resolved in three
// layers: defaults, then an optional JSON config file, then environment
// variables.
type Config struct {
	ListenAddr string `json:"listen_addr"`
	LogLevel   string `json:"log_level"` // debug, info, warn, error, none

	// PprofAddr enables the debug profiling listener when non-empty.
	PprofAddr string `json:"pprof_addr"`

	// Yandex Cloud credentials, shared by the YandexGPT and Yandex Search
	// backends. Both are required at startup.
	FolderID     string `json:"folder_id"`
	APIKey       string `json:"-"`
	SearchAPIKey string `json:"-"`

	// LLM backend selection.
	LLMProvider     string  `json:"llm_provider"` // "yandex", "openai", "anthropic", "google"
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	OpenAIAPIKey    string  `json:"-"`
	AnthropicAPIKey string  `json:"-"`
	GoogleAPIKey    string  `json:"-"`

	NewsFeedURL     string   `json:"news_feed_url"`
	SearchLanguages []string `json:"search_languages"`

	MaxSearchResults     int `json:"max_search_results"`
	MaxNewsItems         int `json:"max_news_items"`
	MaxPageTextLen       int `json:"max_page_text_len"`
	CacheTTLSeconds      int `json:"cache_ttl_seconds"`
	ScrapeTimeoutSeconds int `json:"scrape_timeout_seconds"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:           ":8080",
		LogLevel:             "info",
		LLMProvider:          "yandex",
		Model:                "yandexgpt",
		Temperature:          0.5,
		NewsFeedURL:          "https://news.itmo.ru/ru/news/rss/",
		SearchLanguages:      []string{"lang_ru"},
		MaxSearchResults:     3,
		MaxNewsItems:         3,
		MaxPageTextLen:       1000,
		CacheTTLSeconds:      300,
		ScrapeTimeoutSeconds: 10,
	}
}

// Load loads configuration from an optional JSON file, then applies
// environment variable overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.PprofAddr, "PPROF_ADDR")
	setString(&c.FolderID, "YC_FOLDER_ID")
	setString(&c.APIKey, "YC_API_KEY")
	setString(&c.SearchAPIKey, "YANDEX_SEARCH_API_KEY")
	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.Model, "LLM_MODEL")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&c.NewsFeedURL, "NEWS_FEED_URL")

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
}

// Validate checks that required settings are present. A missing credential is
// a startup-time fatal condition.
func (c *Config) Validate() error {
	if c.FolderID == "" {
		return fmt.Errorf("folder id is required (set YC_FOLDER_ID)")
	}
	if c.APIKey == "" && c.LLMProvider == "yandex" {
		return fmt.Errorf("api key is required (set YC_API_KEY)")
	}
	if c.SearchAPIKey == "" {
		return fmt.Errorf("search api key is required (set YANDEX_SEARCH_API_KEY)")
	}

	switch c.LLMProvider {
	case "yandex":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("anthropic api key is required (set ANTHROPIC_API_KEY)")
		}
	case "google":
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("google api key is required (set GOOGLE_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}

	if c.NewsFeedURL == "" {
		return fmt.Errorf("news feed url is required")
	}
	return nil
}

// CacheTTL returns the shared cache time-to-live as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ScrapeTimeout returns the per-page scrape timeout as a duration.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.ScrapeTimeoutSeconds) * time.Second
}
