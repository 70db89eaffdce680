package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManagerCreatesAndUpdates(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path := filepath.Join(dir, "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	cfg := mgr.Get()
	cfg.MaxLLMCalls = 42
	if err := mgr.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated := mgr.Get()
	if updated.MaxLLMCalls != 42 {
		t.Fatalf("expected max llm calls 42, got %d", updated.MaxLLMCalls)
	}
}

func TestManagerRejectsInvalidUpdate(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := mgr.Get()
	cfg.MaxLLMCalls = 0
	if err := mgr.Update(cfg); err == nil {
		t.Fatal("expected validation error for zero llm call budget")
	}
}

func TestManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 1)
	if err := mgr.Watch(ctx, func(cfg Config) {
		reloaded <- cfg
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cfg := mgr.Get()
	cfg.NewsLimit = 9
	if err := writeConfigFile(mgr.Path(), cfg); err != nil {
		t.Fatalf("writeConfigFile: %v", err)
	}

	select {
	case got := <-reloaded:
		if got.NewsLimit != 9 {
			t.Fatalf("expected reloaded news limit 9, got %d", got.NewsLimit)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on config change")
	}
}

func TestDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("MAX_LLM_CALLS", "7")
	t.Setenv("MARKET_DATA_PROVIDER", "yahoo")

	cfg := DefaultConfigWithRoot(t.TempDir())
	if cfg.MaxLLMCalls != 7 {
		t.Fatalf("expected env override 7, got %d", cfg.MaxLLMCalls)
	}
	if cfg.MarketDataProvider != "yahoo" {
		t.Fatalf("expected yahoo provider, got %s", cfg.MarketDataProvider)
	}
	if cfg.MaxInputChars != 500 {
		t.Fatalf("expected default input cap 500, got %d", cfg.MaxInputChars)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
