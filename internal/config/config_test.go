package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrsinham/consultbench/internal/persist"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "consultbench.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Backend != "file" {
		t.Errorf("Expected file backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != filepath.Join(cfg.DataDir, "drafts") {
		t.Errorf("Expected drafts under data dir, got %q", cfg.Storage.Path)
	}
	if cfg.Autosave.Delay != 650*time.Millisecond {
		t.Errorf("Expected 650ms autosave, got %s", cfg.Autosave.Delay)
	}
	if cfg.Wizard.FeedbackTTL != 2200*time.Millisecond {
		t.Errorf("Expected 2.2s feedback, got %s", cfg.Wizard.FeedbackTTL)
	}
	if cfg.Palette.FocusDelay != 30*time.Millisecond || cfg.Palette.MaxResults != 8 {
		t.Errorf("unexpected palette defaults: %+v", cfg.Palette)
	}
	if cfg.Storage.Timeout != 2*time.Second {
		t.Errorf("Expected 2s storage timeout, got %s", cfg.Storage.Timeout)
	}
	if cfg.KeyStrategy() != persist.ByNameAge {
		t.Errorf("Expected name-age strategy, got %s", cfg.KeyStrategy())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, `
data_dir: `+dataDir+`
storage:
  backend: sqlite
  key_strategy: patient-id
autosave:
  delay: 1s
practice:
  physician: Dr. Claire Martin
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Expected sqlite, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != filepath.Join(dataDir, "drafts.db") {
		t.Errorf("Expected sqlite path under data dir, got %q", cfg.Storage.Path)
	}
	if cfg.Autosave.Delay != time.Second {
		t.Errorf("Expected 1s, got %s", cfg.Autosave.Delay)
	}
	if cfg.KeyStrategy() != persist.ByPatientID {
		t.Errorf("Expected patient-id, got %s", cfg.KeyStrategy())
	}
	if cfg.Practice.Physician != "Dr. Claire Martin" {
		t.Errorf("unexpected physician %q", cfg.Practice.Physician)
	}
	if cfg.Practice.Clinic != "Cabinet médical" {
		t.Errorf("unset keys should keep defaults, got %q", cfg.Practice.Clinic)
	}
	if cfg.Log.File != filepath.Join(dataDir, "consultbench.log") {
		t.Errorf("unexpected log file %q", cfg.Log.File)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
	opts := cfg.StorageOptions()
	if opts.Backend != persist.BackendSQLite || opts.Path != cfg.Storage.Path {
		t.Errorf("unexpected storage options %+v", opts)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CONSULTBENCH_STORAGE_BACKEND", "memory")
	t.Setenv("CONSULTBENCH_PALETTE_MAX_RESULTS", "5")

	cfg, err := Load(writeConfig(t, "storage:\n  backend: file\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("env should win over the file, got %q", cfg.Storage.Backend)
	}
	if cfg.Palette.MaxResults != 5 {
		t.Errorf("Expected 5, got %d", cfg.Palette.MaxResults)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("an explicit config file must exist")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "storage: [unclosed\n"))
	if err == nil {
		t.Error("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"backend", func(c *Config) { c.Storage.Backend = "etcd" }, "storage backend"},
		{"strategy", func(c *Config) { c.Storage.KeyStrategy = "uuid" }, "key strategy"},
		{"redis url", func(c *Config) { c.Storage.Backend = "redis"; c.Storage.RedisURL = "" }, "Redis URL"},
		{"delay", func(c *Config) { c.Autosave.Delay = 0 }, "autosave.delay"},
		{"feedback", func(c *Config) { c.Wizard.FeedbackTTL = -time.Second }, "wizard.feedback_ttl"},
		{"results", func(c *Config) { c.Palette.MaxResults = 0 }, "max_results"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error about %q, got %v", tt.want, err)
			}
		})
	}
}
