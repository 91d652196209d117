package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PortsDir != "/usr/ports" {
		t.Errorf("PortsDir = %q", cfg.PortsDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if got := cfg.Probing.ConnectTimeout(); got != 5*time.Second {
		t.Errorf("ConnectTimeout = %s, want 5s", got)
	}
	if got := cfg.Probing.PollTimeout(); got != time.Second {
		t.Errorf("PollTimeout = %s, want 1s", got)
	}
	if got := cfg.Probing.IdleWait(); got != 30*time.Second {
		t.Errorf("IdleWait = %s, want 30s", got)
	}
	if cfg.Probing.MaxPollRounds != 10 {
		t.Errorf("MaxPollRounds = %d, want 10", cfg.Probing.MaxPollRounds)
	}
	if cfg.Probing.MaxWorkers != 50 {
		t.Errorf("MaxWorkers = %d, want 50", cfg.Probing.MaxWorkers)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml"), true); err == nil {
		t.Fatal("expected error for explicitly requested missing file")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fastest_sites.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFileOverridesWithDefaultsForTheRest(t *testing.T) {
	path := writeConfig(t, `ports_dir = "/data/pkgsrc"
log_level = "debug"

[probing]
poll_timeout_ms = 10
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PortsDir != "/data/pkgsrc" {
		t.Errorf("PortsDir = %q", cfg.PortsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if got := cfg.Probing.PollTimeout(); got != 10*time.Millisecond {
		t.Errorf("PollTimeout = %s, want 10ms", got)
	}
	// Untouched fields keep their defaults.
	if got := cfg.Probing.ConnectTimeout(); got != 5*time.Second {
		t.Errorf("ConnectTimeout = %s, want default 5s", got)
	}
	if cfg.Probing.MaxWorkers != 50 {
		t.Errorf("MaxWorkers = %d, want default 50", cfg.Probing.MaxWorkers)
	}
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	path := writeConfig(t, `[probing]
max_workers = -1
`)
	if _, err := Load(path, true); err == nil {
		t.Fatal("expected error for negative max_workers")
	}
}
