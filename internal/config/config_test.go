package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Create a temporary YAML config file.
	yamlContent := []byte(`
storage:
  sqlite_path: "/tmp/invtrack/invtrack.db"
  export_dir: "/tmp/invtrack/export"
server:
  host: "0.0.0.0"
  port: 9090
logging:
  level: "debug"
  format: "text"
inventory:
  low_stock_threshold: 5
auth:
  session_ttl_minutes: 30
  login_per_minute: 12
`)

	tmpFile, err := os.CreateTemp("", "invtrack-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("INVTRACK_DB")
	os.Unsetenv("INVTRACK_EXPORT_DIR")
	os.Unsetenv("INVTRACK_HOST")
	os.Unsetenv("INVTRACK_PORT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")
	os.Unsetenv("INVTRACK_LOW_STOCK")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- Storage --
	if cfg.Storage.SQLitePath != "/tmp/invtrack/invtrack.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q", cfg.Storage.SQLitePath, "/tmp/invtrack/invtrack.db")
	}
	if cfg.Storage.ExportDir != "/tmp/invtrack/export" {
		t.Errorf("Storage.ExportDir = %q, want %q", cfg.Storage.ExportDir, "/tmp/invtrack/export")
	}

	// -- Server --
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}

	// -- Logging --
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}

	// -- Inventory --
	if cfg.Inventory.LowStockThreshold != 5 {
		t.Errorf("Inventory.LowStockThreshold = %d, want %d", cfg.Inventory.LowStockThreshold, 5)
	}

	// -- Auth --
	if cfg.Auth.SessionTTLMinutes != 30 {
		t.Errorf("Auth.SessionTTLMinutes = %d, want %d", cfg.Auth.SessionTTLMinutes, 30)
	}
	if cfg.Auth.LoginPerMinute != 12 {
		t.Errorf("Auth.LoginPerMinute = %d, want %d", cfg.Auth.LoginPerMinute, 12)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	yamlContent := []byte(`
server:
  port: 7070
`)

	tmpFile, err := os.CreateTemp("", "invtrack-config-partial-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Unsetenv("INVTRACK_PORT")
	os.Unsetenv("INVTRACK_DB")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7070)
	}
	// Fields absent from the file should keep their defaults.
	def := Default()
	if cfg.Storage.SQLitePath != def.Storage.SQLitePath {
		t.Errorf("Storage.SQLitePath = %q, want default %q", cfg.Storage.SQLitePath, def.Storage.SQLitePath)
	}
	if cfg.Inventory.LowStockThreshold != def.Inventory.LowStockThreshold {
		t.Errorf("Inventory.LowStockThreshold = %d, want default %d",
			cfg.Inventory.LowStockThreshold, def.Inventory.LowStockThreshold)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	os.Unsetenv("INVTRACK_DB")
	os.Unsetenv("INVTRACK_PORT")

	cfg, err := Load("/nonexistent/invtrack.yaml")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	def := Default()
	if cfg.Server.Port != def.Server.Port {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, def.Server.Port)
	}
	if cfg.Storage.SQLitePath != def.Storage.SQLitePath {
		t.Errorf("Storage.SQLitePath = %q, want default %q", cfg.Storage.SQLitePath, def.Storage.SQLitePath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
storage:
  sqlite_path: "/original/invtrack.db"
logging:
  level: "info"
`)

	tmpFile, err := os.CreateTemp("", "invtrack-config-env-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	// Set environment overrides.
	os.Setenv("INVTRACK_DB", "/env/invtrack.db")
	os.Setenv("INVTRACK_PORT", "6060")
	os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("INVTRACK_DB")
	defer os.Unsetenv("INVTRACK_PORT")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.SQLitePath != "/env/invtrack.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q (env override)", cfg.Storage.SQLitePath, "/env/invtrack.db")
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want %d (env override)", cfg.Server.Port, 6060)
	}
	// level should remain from YAML since no env override was set.
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q (from YAML)", cfg.Logging.Level, "info")
	}
}
