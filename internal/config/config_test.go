package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Test default configuration
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Check default values
	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}

	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("Expected default cache TTL 15m, got %v", cfg.CacheTTL)
	}

	if cfg.PollInterval != 24*time.Hour {
		t.Errorf("Expected default poll interval 24h, got %v", cfg.PollInterval)
	}

	if cfg.DaysLimit != 30 {
		t.Errorf("Expected default days limit 30, got %d", cfg.DaysLimit)
	}

	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("Expected default fetch timeout 30s, got %v", cfg.FetchTimeout)
	}

	if cfg.FetchWorkers != 8 {
		t.Errorf("Expected default fetch workers 8, got %d", cfg.FetchWorkers)
	}

	if !cfg.EnableSwagger {
		t.Error("Expected default EnableSwagger to be true")
	}

	if cfg.ResetArticles {
		t.Error("Expected default ResetArticles to be false")
	}

	if len(cfg.Feeds) == 0 {
		t.Error("Expected default feeds")
	}

	if len(cfg.SeedKeywords) == 0 {
		t.Error("Expected default seed keywords")
	}
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	// Set environment variables
	os.Setenv("PORT", "9090")
	os.Setenv("CACHE_TTL", "30m")
	os.Setenv("POLL_INTERVAL", "6h")
	os.Setenv("DAYS_LIMIT", "7")
	os.Setenv("FETCH_TIMEOUT", "5s")
	os.Setenv("ENABLE_SWAGGER", "false")
	os.Setenv("RESET_ARTICLES", "true")
	os.Setenv("FEEDS", " https://example.com/a.xml, ,https://example.com/b.xml ")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("CACHE_TTL")
		os.Unsetenv("POLL_INTERVAL")
		os.Unsetenv("DAYS_LIMIT")
		os.Unsetenv("FETCH_TIMEOUT")
		os.Unsetenv("ENABLE_SWAGGER")
		os.Unsetenv("RESET_ARTICLES")
		os.Unsetenv("FEEDS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Check that environment variables are respected
	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090 from env, got %d", cfg.Port)
	}

	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("Expected cache TTL 30m from env, got %v", cfg.CacheTTL)
	}

	if cfg.PollInterval != 6*time.Hour {
		t.Errorf("Expected poll interval 6h from env, got %v", cfg.PollInterval)
	}

	if cfg.DaysLimit != 7 {
		t.Errorf("Expected days limit 7 from env, got %d", cfg.DaysLimit)
	}

	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("Expected fetch timeout 5s from env, got %v", cfg.FetchTimeout)
	}

	if cfg.EnableSwagger {
		t.Error("Expected EnableSwagger false from env")
	}

	if !cfg.ResetArticles {
		t.Error("Expected ResetArticles true from env")
	}

	expected := []string{"https://example.com/a.xml", "https://example.com/b.xml"}
	if !reflect.DeepEqual(cfg.Feeds, expected) {
		t.Errorf("Expected feeds %v from env, got %v", expected, cfg.Feeds)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("POLL_INTERVAL", "daily")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected fallback port 8080, got %d", cfg.Port)
	}
	if cfg.PollInterval != 24*time.Hour {
		t.Errorf("Expected fallback poll interval 24h, got %v", cfg.PollInterval)
	}
}

func TestLoadConfig_NonPositiveDurationsFallBack(t *testing.T) {
	for _, value := range []string{"0s", "-1h"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("POLL_INTERVAL", value)
			t.Setenv("FETCH_TIMEOUT", value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if cfg.PollInterval != 24*time.Hour {
				t.Errorf("Expected fallback poll interval 24h, got %v", cfg.PollInterval)
			}
			if cfg.FetchTimeout != 30*time.Second {
				t.Errorf("Expected fallback fetch timeout 30s, got %v", cfg.FetchTimeout)
			}
		})
	}
}

func TestDefaultSources(t *testing.T) {
	sources, err := DefaultSources()
	if err != nil {
		t.Fatalf("Failed to parse embedded defaults: %v", err)
	}

	seen := make(map[string]bool)
	for _, keyword := range sources.Keywords {
		key := strings.ToLower(keyword)
		if seen[key] {
			t.Errorf("Duplicate default keyword %q", keyword)
		}
		seen[key] = true
	}

	for _, keyword := range []string{"hypersonic", "planet labs", "rocket lab"} {
		if !seen[keyword] {
			t.Errorf("Expected default keyword %q", keyword)
		}
	}

	for _, feed := range sources.Feeds {
		if !strings.HasPrefix(feed, "http") {
			t.Errorf("Expected feed URL, got %q", feed)
		}
	}
}

func TestLoadConfig_FeedsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	body := "feeds:\n  - https://example.com/only.xml\n  - https://example.com/only.xml\nkeywords:\n  - Quantum\n  - \" \"\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("Failed to write feeds file: %v", err)
	}
	t.Setenv("FEEDS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !reflect.DeepEqual(cfg.Feeds, []string{"https://example.com/only.xml"}) {
		t.Errorf("Expected feeds from file, got %v", cfg.Feeds)
	}
	if !reflect.DeepEqual(cfg.SeedKeywords, []string{"Quantum"}) {
		t.Errorf("Expected keywords from file, got %v", cfg.SeedKeywords)
	}
}

func TestLoadConfig_FeedsFileKeepsDefaultsForMissingLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte("feeds:\n  - https://example.com/only.xml\n"), 0600); err != nil {
		t.Fatalf("Failed to write feeds file: %v", err)
	}
	t.Setenv("FEEDS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	defaults, _ := DefaultSources()
	if len(cfg.SeedKeywords) != len(defaults.Keywords) {
		t.Errorf("Expected default keywords to be kept, got %d", len(cfg.SeedKeywords))
	}
}

func TestLoadConfig_FeedsFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("FEEDS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := Load(); err == nil {
			t.Error("Expected error for missing feeds file")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feeds.yaml")
		os.WriteFile(path, []byte("feeds: [unterminated"), 0600)
		t.Setenv("FEEDS_FILE", path)
		if _, err := Load(); err == nil {
			t.Error("Expected error for malformed feeds file")
		}
	})
}
