package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %s, want 8080", cfg.HTTPPort)
	}
	if cfg.ResolutionWindow != 90*time.Minute {
		t.Errorf("ResolutionWindow = %s, want 90m", cfg.ResolutionWindow)
	}
	if cfg.ResolutionBatchLimit != 5000 {
		t.Errorf("ResolutionBatchLimit = %d, want 5000", cfg.ResolutionBatchLimit)
	}
	if cfg.AssumedStake != 100.0 {
		t.Errorf("AssumedStake = %f, want 100", cfg.AssumedStake)
	}
	if !reflect.DeepEqual(cfg.ReferenceBooks, []string{"pinnacle"}) {
		t.Errorf("ReferenceBooks = %v, want [pinnacle]", cfg.ReferenceBooks)
	}
	if cfg.StorageMode != "memory" {
		t.Errorf("StorageMode = %s, want memory", cfg.StorageMode)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("RESOLUTION_WINDOW", "2h")
	t.Setenv("ASSUMED_STAKE", "250.5")
	t.Setenv("REFERENCE_BOOKS", "pinnacle, betfair ,circa")
	t.Setenv("STORAGE_MODE", "postgres")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ResolutionWindow != 2*time.Hour {
		t.Errorf("ResolutionWindow = %s, want 2h", cfg.ResolutionWindow)
	}
	if cfg.AssumedStake != 250.5 {
		t.Errorf("AssumedStake = %f, want 250.5", cfg.AssumedStake)
	}
	if !reflect.DeepEqual(cfg.ReferenceBooks, []string{"pinnacle", "betfair", "circa"}) {
		t.Errorf("ReferenceBooks = %v, want [pinnacle betfair circa]", cfg.ReferenceBooks)
	}
	if cfg.StorageMode != "postgres" {
		t.Errorf("StorageMode = %s, want postgres", cfg.StorageMode)
	}
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RESOLUTION_WINDOW", "not-a-duration")
	t.Setenv("RESOLUTION_BATCH_LIMIT", "lots")
	t.Setenv("ASSUMED_STAKE", "much")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ResolutionWindow != 90*time.Minute {
		t.Errorf("ResolutionWindow = %s, want default 90m", cfg.ResolutionWindow)
	}
	if cfg.ResolutionBatchLimit != 5000 {
		t.Errorf("ResolutionBatchLimit = %d, want default 5000", cfg.ResolutionBatchLimit)
	}
	if cfg.AssumedStake != 100.0 {
		t.Errorf("AssumedStake = %f, want default 100", cfg.AssumedStake)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPPort:             "8080",
			ResolutionWindow:     90 * time.Minute,
			ResolutionBatchLimit: 5000,
			AssumedStake:         100.0,
			ReferenceBooks:       []string{"pinnacle"},
			StorageMode:          "memory",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty-http-port", func(c *Config) { c.HTTPPort = "" }, true},
		{"zero-window", func(c *Config) { c.ResolutionWindow = 0 }, true},
		{"negative-batch-limit", func(c *Config) { c.ResolutionBatchLimit = -1 }, true},
		{"zero-stake", func(c *Config) { c.AssumedStake = 0 }, true},
		{"no-reference-books", func(c *Config) { c.ReferenceBooks = nil }, true},
		{"unknown-storage-mode", func(c *Config) { c.StorageMode = "cassandra" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
