package config

import (
	"testing"
	"time"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("SS_PORTAL_USER", "000123456")
	t.Setenv("SS_PORTAL_PIN", "0000")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.University != DefaultUniversity {
		t.Errorf("University = %q", cfg.University)
	}
	if cfg.MongoURI != DefaultMongoURI || cfg.MongoDB != DefaultMongoDB {
		t.Errorf("mongo = %q/%q", cfg.MongoURI, cfg.MongoDB)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if cfg.ScrapeEvery != DefaultScrapeEvery {
		t.Errorf("ScrapeEvery = %s", cfg.ScrapeEvery)
	}
}

func TestLoadOverrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("SS_MONGO_URI", "mongodb://db:27017")
	t.Setenv("SS_FETCH_CONCURRENCY", "4")
	t.Setenv("SS_SCRAPE_INTERVAL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if cfg.ScrapeEvery != 30*time.Minute {
		t.Errorf("ScrapeEvery = %s", cfg.ScrapeEvery)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric concurrency", "SS_FETCH_CONCURRENCY", "lots"},
		{"zero concurrency", "SS_FETCH_CONCURRENCY", "0"},
		{"bad interval", "SS_SCRAPE_INTERVAL", "soon"},
		{"negative interval", "SS_SCRAPE_INTERVAL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("SS_PORTAL_USER", "")
	t.Setenv("SS_PORTAL_PIN", "")
	if _, err := Load(); err == nil {
		t.Error("expected an error")
	}
}
