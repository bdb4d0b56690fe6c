package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "abc123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "abc123" {
		t.Fatalf("APIKey = %q", cfg.APIKey)
	}
	if cfg.BaseURL != "https://api.themoviedb.org/3/" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
	if !cfg.WaitForConnectivity {
		t.Fatal("expected wait_for_connectivity default true")
	}
	if cfg.CachePolicy != "return_cache_else_load" {
		t.Fatalf("CachePolicy = %q", cfg.CachePolicy)
	}
	if cfg.PollInterval != time.Hour {
		t.Fatalf("PollInterval = %s", cfg.PollInterval)
	}
	if cfg.StorageCleanupInterval != 12*time.Hour {
		t.Fatalf("StorageCleanupInterval = %s", cfg.StorageCleanupInterval)
	}
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "  padded  ")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("WAIT_FOR_CONNECTIVITY", "false")
	t.Setenv("CACHE_POLICY", "RELOAD")
	t.Setenv("STORAGE_TYPE", "none")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "padded" {
		t.Fatalf("APIKey = %q", cfg.APIKey)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
	if cfg.WaitForConnectivity {
		t.Fatal("expected wait_for_connectivity override")
	}
	if cfg.CachePolicy != "reload" {
		t.Fatalf("CachePolicy = %q", cfg.CachePolicy)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "tmdb_api_key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "abc")
	t.Setenv("POLL_INTERVAL", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected poll_interval validation error")
	}
}

func TestStartupFieldsOmitAPIKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "secret-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fields := cfg.StartupFields()
	for k, v := range fields {
		if s, ok := v.(string); ok && strings.Contains(s, "secret-key") {
			t.Fatalf("field %s leaks the api key", k)
		}
	}
	if fields["api_key_set"] != true {
		t.Fatalf("api_key_set = %v", fields["api_key_set"])
	}
	if fields["base_url"] != "https://api.themoviedb.org/3/" || fields["cache_policy"] != "return_cache_else_load" {
		t.Fatalf("unexpected catalog fields: %#v", fields)
	}
	if fields["poll_interval"] != "1h0m0s" {
		t.Fatalf("poll_interval = %v", fields["poll_interval"])
	}
}
