package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddress != "0.0.0.0:8080" {
		t.Fatalf("unexpected http address: %s", cfg.HTTPAddress)
	}
	if cfg.DatabasePath != "contesthub.db" {
		t.Fatalf("unexpected database path: %s", cfg.DatabasePath)
	}
	if cfg.FetchInterval != 30*time.Minute {
		t.Fatalf("unexpected fetch interval: %s", cfg.FetchInterval)
	}
	if cfg.FetchTimeout != 20*time.Second {
		t.Fatalf("unexpected fetch timeout: %s", cfg.FetchTimeout)
	}
	if cfg.CodeforcesAPIURL != "https://codeforces.com/api" {
		t.Fatalf("unexpected codeforces url: %s", cfg.CodeforcesAPIURL)
	}
}

func TestLoadRejectsMissingDatabasePath(t *testing.T) {
	configViper := NewViper()
	configViper.Set("database.path", "  ")
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error for blank database path")
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	configViper := NewViper()
	configViper.Set("fetch.interval_minutes", 0)
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error for zero interval")
	}

	configViper = NewViper()
	configViper.Set("fetch.timeout_seconds", -5)
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}

func TestLoadRequiresAPIKeyWithPlaylists(t *testing.T) {
	configViper := NewViper()
	configViper.Set("youtube.playlists", map[string]string{"codeforces": "PL-CF"})
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error when playlists are set without an api key")
	}

	configViper.Set("youtube.api_key", "secret")
	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.YoutubePlaylists["codeforces"] != "PL-CF" {
		t.Fatalf("unexpected playlists: %v", cfg.YoutubePlaylists)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	configViper := NewViper()
	configViper.Set("http.address", "127.0.0.1:9090")
	configViper.Set("admin.token", "hunter2")
	configViper.Set("fetch.interval_minutes", 5)

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddress != "127.0.0.1:9090" {
		t.Fatalf("unexpected http address: %s", cfg.HTTPAddress)
	}
	if cfg.AdminToken != "hunter2" {
		t.Fatalf("unexpected admin token: %s", cfg.AdminToken)
	}
	if cfg.FetchInterval != 5*time.Minute {
		t.Fatalf("unexpected fetch interval: %s", cfg.FetchInterval)
	}
}
