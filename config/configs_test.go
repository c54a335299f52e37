package config

import (
	"testing"
	"time"
)

func TestLoadFetchSettingsDefaults(t *testing.T) {
	cfg := Load()
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.BulkFetchTimeout != 30*time.Second {
		t.Errorf("BulkFetchTimeout = %v, want 30s", cfg.BulkFetchTimeout)
	}
	if cfg.FetchRatePerSecond != 5 {
		t.Errorf("FetchRatePerSecond = %v, want 5", cfg.FetchRatePerSecond)
	}
}

func TestLoadFetchSettingsFromEnv(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT_SECONDS", "3")
	t.Setenv("BULK_FETCH_TIMEOUT_SECONDS", "45")
	t.Setenv("FETCH_RATE_PER_SECOND", "12")

	cfg := Load()
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("FetchTimeout = %v, want 3s", cfg.FetchTimeout)
	}
	if cfg.BulkFetchTimeout != 45*time.Second {
		t.Errorf("BulkFetchTimeout = %v, want 45s", cfg.BulkFetchTimeout)
	}
	if cfg.FetchRatePerSecond != 12 {
		t.Errorf("FetchRatePerSecond = %v, want 12", cfg.FetchRatePerSecond)
	}
}
