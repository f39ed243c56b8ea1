package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Temperature != 0.5 {
		t.Errorf("Expected temperature 0.5, got %v", cfg.Temperature)
	}
	if cfg.MaxSearchResults != 3 {
		t.Errorf("Expected 3 max search results, got %d", cfg.MaxSearchResults)
	}
	if cfg.MaxNewsItems != 3 {
		t.Errorf("Expected 3 max news items, got %d", cfg.MaxNewsItems)
	}
	if cfg.CacheTTLSeconds != 300 {
		t.Errorf("Expected cache TTL 300s, got %d", cfg.CacheTTLSeconds)
	}
	if cfg.LLMProvider != "yandex" {
		t.Errorf("Expected default provider yandex, got %s", cfg.LLMProvider)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"listen_addr": ":9090", "folder_id": "b1gtest", "max_search_results": 5}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("Expected listen addr :9090, got %s", cfg.ListenAddr)
	}
	if cfg.FolderID != "b1gtest" {
		t.Errorf("Expected folder id b1gtest, got %s", cfg.FolderID)
	}
	if cfg.MaxSearchResults != 5 {
		t.Errorf("Expected 5 max search results, got %d", cfg.MaxSearchResults)
	}
	// Unset fields keep their defaults.
	if cfg.Temperature != 0.5 {
		t.Errorf("Expected default temperature, got %v", cfg.Temperature)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("Expected default listen addr, got %s", cfg.ListenAddr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("YC_FOLDER_ID", "b1genv")
	t.Setenv("YC_API_KEY", "secret")
	t.Setenv("LLM_TEMPERATURE", "0.9")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FolderID != "b1genv" {
		t.Errorf("Expected folder id from env, got %s", cfg.FolderID)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("Expected api key from env, got %s", cfg.APIKey)
	}
	if cfg.Temperature != 0.9 {
		t.Errorf("Expected temperature from env, got %v", cfg.Temperature)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.FolderID = "b1gtest"
		cfg.APIKey = "key"
		cfg.SearchAPIKey = "search-key"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}

	cfg := valid()
	cfg.FolderID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing folder id")
	}

	cfg = valid()
	cfg.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing api key")
	}

	cfg = valid()
	cfg.SearchAPIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing search api key")
	}

	cfg = valid()
	cfg.LLMProvider = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for anthropic provider without key")
	}
	cfg.AnthropicAPIKey = "sk-ant"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid anthropic config, got: %v", err)
	}

	cfg = valid()
	cfg.LLMProvider = "something-else"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
