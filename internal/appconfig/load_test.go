package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Errorf("config_version = %d, want %d", cfg.ConfigVersion, CurrentConfigVersion)
	}
	if cfg.HTTP.Addr == "" {
		t.Error("expected default http addr")
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 99
demo_mode: true
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresEndpointOutsideDemoMode(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "orchestrator.endpoint") {
		t.Fatalf("expected endpoint error, got %v", err)
	}
}

func TestLoadAcceptsDemoModeWithoutEndpoint(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
demo_mode: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.DemoMode {
		t.Error("expected demo_mode set")
	}
}

func TestLoadRejectsBadEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{"missing scheme", "orchestrator.local:8080"},
		{"wrong scheme", "grpc://orchestrator.local:8080"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, `
config_version: 1
orchestrator:
  endpoint: `+tc.endpoint+`
`)
			if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "orchestrator.endpoint") {
				t.Fatalf("expected endpoint error, got %v", err)
			}
		})
	}
}

func TestLoadSyncConfigConversion(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
orchestrator:
  endpoint: https://orchestrator.example.com
  user_id: alice
  request_timeout_seconds: 7
health:
  interval_seconds: 12
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sync := cfg.SyncConfig()
	if sync.Endpoint != "https://orchestrator.example.com" {
		t.Errorf("endpoint = %q", sync.Endpoint)
	}
	if sync.UserID != "alice" {
		t.Errorf("user = %q", sync.UserID)
	}
	if sync.RequestTimeout != 7*time.Second {
		t.Errorf("request timeout = %v", sync.RequestTimeout)
	}
	if sync.HealthInterval != 12*time.Second {
		t.Errorf("health interval = %v", sync.HealthInterval)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config to exist: %v", err)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
}

func TestEnsureDefaultWritesOnlyWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	resolved, wrote, err := EnsureDefault(path)
	if err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if !wrote || resolved != path {
		t.Fatalf("expected first run to write %q, got wrote=%v path=%q", path, wrote, resolved)
	}
	cfg, err := Load(resolved)
	if err != nil {
		t.Fatalf("load written default: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("config_version = %d, want %d", cfg.ConfigVersion, CurrentConfigVersion)
	}

	if _, wrote, err = EnsureDefault(path); err != nil || wrote {
		t.Fatalf("expected existing config untouched, got wrote=%v err=%v", wrote, err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
