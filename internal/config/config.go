package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type AdvisorConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Path          string `yaml:"path"`           // sqlite database file
	EncryptionKey string `yaml:"encryption_key"` // optional; 16, 24 or 32 bytes enables at-rest sealing
}

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Advisor AdvisorConfig `yaml:"advisor"`
	Storage StorageConfig `yaml:"storage"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML config, applies the optional .env overlay for
// endpoint credentials, then fills defaults. A missing config file is fine
// for a client tool; defaults plus environment carry it.
func LoadConfig(path string, dev bool) (*Config, error) {
	// Optional; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("INTILLASENSE_API_URL"); v != "" {
		cfg.Advisor.BaseURL = v
	}
	if v := os.Getenv("INTILLASENSE_API_KEY"); v != "" {
		cfg.Advisor.APIKey = v
	}
	if v := os.Getenv("INTILLASENSE_STATE_KEY"); v != "" {
		cfg.Storage.EncryptionKey = v
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Advisor.BaseURL == "" {
		cfg.Advisor.BaseURL = "http://localhost:5000"
	}
	if cfg.Advisor.Timeout <= 0 {
		cfg.Advisor.Timeout = 60 * time.Second
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath()
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "intillasense", "state.db")
}
