package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is this service's operational configuration — HTTP port and the
// root directory holding pack/navigation_rules.toml,
// pack/extraction_rules.toml and pack/configure.toml. Trimmed from the
// teacher's internal/config/config.go (dropped StoragePath/
// ThumbnailsPath/MaxConcurrent/DefaultTimeout — no separate asset
// storage directory or thumbnailing here; extraction rules carry their
// own local_path, and connection pool size is configure.toml's concern).
type Config struct {
	Port     string `json:"port"`
	RootPath string `json:"rootPath"`
}

// LoadConfig reads and parses a JSON config file from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	cfg.RootPath = sanitizePath(cfg.RootPath)
	return &cfg, nil
}

// SaveConfig writes cfg as JSON to path.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetDefaultConfig returns the service defaults used when no config file
// is present.
func GetDefaultConfig() *Config {
	return &Config{
		Port:     "8080",
		RootPath: ".",
	}
}

func sanitizePath(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Clean(path)
}
