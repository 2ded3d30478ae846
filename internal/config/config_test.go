package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nainya/gamelist/pkg/field"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GAMELIST_CONFIG", "GAMELIST_ROMS_ROOT", "GAMELIST_PORT",
		"GAMELIST_METRICS_PORT", "GAMELIST_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamelistd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 50051 || cfg.MetricsPort != 9090 {
		t.Errorf("Unexpected ports: %d, %d", cfg.Port, cfg.MetricsPort)
	}
	if cfg.RomsRoot != "roms" {
		t.Errorf("Expected default roms root, got %s", cfg.RomsRoot)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
roms_root: /srv/roms
port: 6000
metrics_port: 6001
log:
  level: debug
cache:
  extensions: 16
`)
	t.Setenv("GAMELIST_PORT", "7000")

	cfg, err := Load([]string{"-config", path, "-metrics-port", "8001"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RomsRoot != "/srv/roms" {
		t.Errorf("Expected roms root from file, got %s", cfg.RomsRoot)
	}
	if cfg.Port != 7000 {
		t.Errorf("Expected env port 7000, got %d", cfg.Port)
	}
	if cfg.MetricsPort != 8001 {
		t.Errorf("Expected flag metrics port 8001, got %d", cfg.MetricsPort)
	}
	if cfg.Log.Level != "debug" || cfg.Cache.Extensions != 16 {
		t.Errorf("Unexpected log/cache settings: %+v %+v", cfg.Log, cfg.Cache)
	}
}

func TestLoadFieldOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
fields:
  rating:
    kind: LineText
    editable: true
  region:
    kind: Alphanumeric
    editable: false
`)
	cfg, err := Load([]string{"-config", path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p := cfg.Policy()
	if r := p.Rule("rating"); r.Kind != field.LineText {
		t.Errorf("Expected rating override, got %s", r.Kind)
	}
	if r := p.Rule("region"); r.Kind != field.Alphanumeric || r.Editable {
		t.Errorf("Unexpected region rule: %+v", r)
	}
	if r := p.Rule("path"); r.Kind != field.File {
		t.Errorf("Expected default path rule, got %s", r.Kind)
	}
}

func TestLoadUnknownKind(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "fields:\n  rating:\n    kind: Money\n")
	if _, err := Load([]string{"-config", path}); err == nil {
		t.Error("Expected error for unknown field kind")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMELIST_PORT", "abc")
	if _, err := Load(nil); err == nil {
		t.Error("Expected error for non-numeric port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no roms root", func(c *Config) { c.RomsRoot = " " }, false},
		{"bad port", func(c *Config) { c.Port = 0 }, false},
		{"metrics disabled", func(c *Config) { c.MetricsPort = 0 }, true},
		{"port collision", func(c *Config) { c.MetricsPort = c.Port }, false},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, false},
		{"negative cache", func(c *Config) { c.Cache.Extensions = -1 }, false},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: expected valid, got %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
