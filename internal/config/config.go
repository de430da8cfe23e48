package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the invtrack service.
type Config struct {
	Storage   Storage   `yaml:"storage"`
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
	Inventory Inventory `yaml:"inventory"`
	Auth      Auth      `yaml:"auth"`
}

// Storage holds paths for data persistence.
type Storage struct {
	SQLitePath string `yaml:"sqlite_path"`
	ExportDir  string `yaml:"export_dir"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Inventory holds business parameters for the catalog.
type Inventory struct {
	LowStockThreshold int64 `yaml:"low_stock_threshold"`
}

// Auth holds session and login parameters.
type Auth struct {
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
	LoginPerMinute    int `yaml:"login_per_minute"`
}

// Default returns a Config with working defaults so the service can start
// without a config file.
func Default() *Config {
	return &Config{
		Storage: Storage{
			SQLitePath: "data/invtrack.db",
			ExportDir:  "data/export",
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Inventory: Inventory{
			LowStockThreshold: 10,
		},
		Auth: Auth{
			SessionTTLMinutes: 60,
			LoginPerMinute:    30,
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it over
// the defaults, and then applies environment variable overrides. A missing
// file is not an error; the defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Run on defaults.
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INVTRACK_DB"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("INVTRACK_EXPORT_DIR"); v != "" {
		cfg.Storage.ExportDir = v
	}

	if v := os.Getenv("INVTRACK_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("INVTRACK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("INVTRACK_LOW_STOCK"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Inventory.LowStockThreshold = n
		}
	}
}
